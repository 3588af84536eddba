package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hairwise/hairwise-backend/internal/models"
)

type MessageRepo interface {
	Insert(ctx context.Context, m *models.Message) error
	// ListByConversation returns messages oldest-first. An unknown id
	// yields an empty slice, not an error; existence checks belong to the
	// append path.
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Insert(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *messageRepo) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
