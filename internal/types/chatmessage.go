package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type MessageRole string

const (
  RoleUser   MessageRole = "user"
  RoleBot    MessageRole = "bot"
  RoleSystem MessageRole = "system"
)

type MessageType string

const (
  MessageText      MessageType = "text"
  MessageStory     MessageType = "story"
  MessageQuestion  MessageType = "question"
  MessageAnswer    MessageType = "answer"
  MessageNarrative MessageType = "narrative"
)

// ChatMessage is an append-only transcript entry. Rows are never mutated or
// deleted once written; ordering is by creation time.
type ChatMessage struct {
  gorm.Model
  ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID uuid.UUID `gorm:"type:uuid;index;not null" json:"session_id"`
  Session   *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`

  Role        MessageRole    `gorm:"column:role;not null" json:"role"`
  MessageType MessageType    `gorm:"column:message_type;not null" json:"message_type"`
  Message     string         `gorm:"column:message;type:text;not null" json:"message"`
  Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

  CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ChatMessage) TableName() string {
  return "chat_message"
}

type ChatMessageView struct {
  ID        uuid.UUID      `json:"id"`
  Role      MessageRole    `json:"role"`
  Type      MessageType    `json:"type"`
  Message   string         `json:"message"`
  Metadata  datatypes.JSON `json:"metadata,omitempty"`
  Timestamp time.Time      `json:"timestamp"`
}

func (m *ChatMessage) ToChatFormat() ChatMessageView {
  return ChatMessageView{
    ID:        m.ID,
    Role:      m.Role,
    Type:      m.MessageType,
    Message:   m.Message,
    Metadata:  m.Metadata,
    Timestamp: m.CreatedAt,
  }
}
