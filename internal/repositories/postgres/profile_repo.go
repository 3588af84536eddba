package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hairwise/hairwise-backend/internal/models"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// EnsureExists inserts the row mirroring the identity record if it is
	// not there yet; an existing row is left untouched.
	EnsureExists(ctx context.Context, p *models.Profile) error
	// UpdateAttributes writes the user-editable columns only. Role is
	// deliberately not among them.
	UpdateAttributes(ctx context.Context, p *models.Profile) error
	RoleByID(ctx context.Context, id string) (models.UserRole, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) EnsureExists(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(p).Error
}

func (r *profileRepo) UpdateAttributes(ctx context.Context, p *models.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", p.ID).
		Select("full_name", "hair_type", "scalp_condition", "hair_concerns", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) RoleByID(ctx context.Context, id string) (models.UserRole, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Select("role").
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
