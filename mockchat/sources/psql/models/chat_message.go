package models

// ChatMessage is one message row. Seq (the primary key) preserves insertion
// order within a conversation.
type ChatMessage struct {
	Seq            uint     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID         string   `json:"user_id" gorm:"type:varchar(255);not null;index:idx_chat_message_key"`
	ConversationID string   `json:"conversation_id" gorm:"type:varchar(255);not null;index:idx_chat_message_key"`
	MessageID      string   `json:"id" gorm:"type:varchar(255);not null"`
	Role           string   `json:"role" gorm:"type:varchar(50);not null"`
	Content        string   `json:"content" gorm:"type:text;not null"`
	Ts             int64    `json:"ts" gorm:"not null"`
	Attachments    []string `json:"attachments,omitempty" gorm:"serializer:json;type:text"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
