package models

import (
	"time"
)

// Conversation is the metadata row for one (user, conversation) key.
type Conversation struct {
	ID             uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID         string    `json:"user_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_conversation_key"`
	ConversationID string    `json:"conversation_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_conversation_key"`
	Title          string    `json:"title" gorm:"type:varchar(255);not null;default:''"`
	SystemPrompt   string    `json:"system_prompt" gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
