package models

import (
	"time"

	"github.com/lib/pq"
)

type HairType string

const (
	HairStraight HairType = "straight"
	HairWavy     HairType = "wavy"
	HairCurly    HairType = "curly"
	HairCoily    HairType = "coily"
)

type ScalpCondition string

const (
	ScalpNormal    ScalpCondition = "normal"
	ScalpDry       ScalpCondition = "dry"
	ScalpOily      ScalpCondition = "oily"
	ScalpSensitive ScalpCondition = "sensitive"
)

// Profile mirrors the identity record; ID is the auth provider's user UUID.
// Role is never written by the profile-update path.
type Profile struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email    string `gorm:"column:email;type:text" json:"email"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`

	HairType       string `gorm:"column:hair_type;type:text" json:"hair_type"`
	ScalpCondition string `gorm:"column:scalp_condition;type:text" json:"scalp_condition"`

	Concerns pq.StringArray `gorm:"column:hair_concerns;type:text[]" json:"hair_concerns"`

	Role UserRole `gorm:"column:role;type:text;default:user" json:"role"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func ValidHairType(v string) bool {
	switch HairType(v) {
	case HairStraight, HairWavy, HairCurly, HairCoily:
		return true
	}
	return false
}

func ValidScalpCondition(v string) bool {
	switch ScalpCondition(v) {
	case ScalpNormal, ScalpDry, ScalpOily, ScalpSensitive:
		return true
	}
	return false
}
