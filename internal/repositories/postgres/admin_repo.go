package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hairwise/hairwise-backend/internal/models"
)

// Stats are the dashboard head-line counts.
type Stats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalConversations int64 `json:"total_conversations"`
	TotalMessages      int64 `json:"total_messages"`
}

// ConversationOverview is a conversation row joined with its owner's email
// and its message count, for the admin dashboard list.
type ConversationOverview struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	OwnerEmail   string    `json:"owner_email"`
	MessageCount int64     `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminRepo interface {
	Counts(ctx context.Context) (Stats, error)
	ListProfiles(ctx context.Context, limit int) ([]models.Profile, error)
	ListConversations(ctx context.Context, limit int) ([]ConversationOverview, error)
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepo {
	return &adminRepo{db: db}
}

func (r *adminRepo) Counts(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Profile{}).Count(&s.TotalUsers).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Conversation{}).Count(&s.TotalConversations).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Message{}).Count(&s.TotalMessages).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (r *adminRepo) ListProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *adminRepo) ListConversations(ctx context.Context, limit int) ([]ConversationOverview, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []ConversationOverview
	err := r.db.WithContext(ctx).
		Table("conversations").
		Select("conversations.id, conversations.title, conversations.created_at, profiles.email AS owner_email, COUNT(messages.id) AS message_count").
		Joins("LEFT JOIN profiles ON profiles.id = conversations.user_id").
		Joins("LEFT JOIN messages ON messages.conversation_id = conversations.id").
		Group("conversations.id, conversations.title, conversations.created_at, profiles.email").
		Order("conversations.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
