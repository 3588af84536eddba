package models

import "time"

type Conversation struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title  string `gorm:"column:title;type:text" json:"title"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message rows are append-only; nothing in the backend mutates or deletes them.
type Message struct {
	ID             string      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID string      `gorm:"column:conversation_id;type:uuid;index" json:"conversation_id"`
	Role           MessageRole `gorm:"column:role;type:text" json:"role"`
	Content        string      `gorm:"column:content;type:text" json:"content"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
