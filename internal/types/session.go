package types

import (
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type SessionStatus string

const (
  SessionActive    SessionStatus = "active"
  SessionCompleted SessionStatus = "completed"
  SessionAbandoned SessionStatus = "abandoned"
)

// Session is one conversation instance owned by exactly one user.
// FlowState tracks the step in the conversation; Status is the lifecycle
// and moves independently (a session can be abandoned from any step).
type Session struct {
  gorm.Model
  ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
  User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  FlowState FlowState     `gorm:"column:flow_state;not null" json:"flow_state"`
  Status    SessionStatus `gorm:"column:status;index;not null" json:"status"`

  StoryText    string `gorm:"column:story_text;type:text" json:"story_text"`
  StorySummary string `gorm:"column:story_summary;size:200" json:"story_summary"`

  DetectedPrimary   string `gorm:"column:detected_primary;size:50" json:"detected_primary"`
  DetectedSecondary string `gorm:"column:detected_secondary;size:50" json:"detected_secondary"`
  DetectedTertiary  string `gorm:"column:detected_tertiary;size:50" json:"detected_tertiary"`

  FinalPrimary   string `gorm:"column:final_primary;size:50" json:"final_primary"`
  FinalSecondary string `gorm:"column:final_secondary;size:50" json:"final_secondary"`
  FinalTertiary  string `gorm:"column:final_tertiary;size:50" json:"final_tertiary"`

  StartedAt time.Time  `gorm:"column:started_at;not null" json:"started_at"`
  EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at"`

  CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

  EmotionLogs []*EmotionLog     `gorm:"foreignKey:SessionID;references:ID" json:"emotion_logs,omitempty"`
  Answers     []*QuestionAnswer `gorm:"foreignKey:SessionID;references:ID" json:"answers,omitempty"`
  Messages    []*ChatMessage    `gorm:"foreignKey:SessionID;references:ID" json:"messages,omitempty"`
}

func (Session) TableName() string {
  return "session"
}

// EmotionKey returns the dotted "Primary.Secondary.Tertiary" path, preferring
// the final emotion over the detected one. Empty until a full triple exists.
func (s *Session) EmotionKey() string {
  primary := s.FinalPrimary
  if primary == "" {
    primary = s.DetectedPrimary
  }
  secondary := s.FinalSecondary
  if secondary == "" {
    secondary = s.DetectedSecondary
  }
  tertiary := s.FinalTertiary
  if tertiary == "" {
    tertiary = s.DetectedTertiary
  }
  if primary == "" || secondary == "" || tertiary == "" {
    return ""
  }
  return fmt.Sprintf("%s.%s.%s", primary, secondary, tertiary)
}
