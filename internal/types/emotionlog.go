package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type DetectionSource string

const (
  SourceAIDetect  DetectionSource = "ai_detect"
  SourceValidated DetectionSource = "validated"
)

// EmotionLog records one emotion determination event for a session. Created at
// detection time (source=ai_detect) and amended once at validation time
// (source=validated). UserID is denormalized for journey queries.
type EmotionLog struct {
  gorm.Model
  ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID uuid.UUID `gorm:"type:uuid;index;not null" json:"session_id"`
  Session   *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
  UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

  PrimaryEmotion   string `gorm:"column:primary_emotion;size:50;not null" json:"primary_emotion"`
  SecondaryEmotion string `gorm:"column:secondary_emotion;size:50;not null" json:"secondary_emotion"`
  TertiaryEmotion  string `gorm:"column:tertiary_emotion;size:50;not null" json:"tertiary_emotion"`

  Confidence      *float64        `gorm:"column:confidence" json:"confidence"`
  Source          DetectionSource `gorm:"column:source;not null" json:"source"`
  Narrative       string          `gorm:"column:narrative;type:text" json:"narrative"`
  JourneyNote     string          `gorm:"column:journey_note;type:text" json:"journey_note"`
  ValidationScore *int            `gorm:"column:validation_score" json:"validation_score"`

  DetectedAt time.Time `gorm:"column:detected_at;not null" json:"detected_at"`
  CreatedAt  time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (EmotionLog) TableName() string {
  return "emotion_log"
}

// HistorySummary is the human-facing journey projection of a log.
type HistorySummary struct {
  ID         uuid.UUID `json:"id"`
  SessionID  uuid.UUID `json:"session_id"`
  Primary    string    `json:"primary"`
  Secondary  string    `json:"secondary"`
  Tertiary   string    `json:"tertiary"`
  Confidence *float64  `json:"confidence"`
  Source     string    `json:"source"`
  HasNarrative bool    `json:"has_narrative"`
  DetectedAt time.Time `json:"detected_at"`
}

func (e *EmotionLog) ToHistorySummary() HistorySummary {
  return HistorySummary{
    ID:           e.ID,
    SessionID:    e.SessionID,
    Primary:      e.PrimaryEmotion,
    Secondary:    e.SecondaryEmotion,
    Tertiary:     e.TertiaryEmotion,
    Confidence:   e.Confidence,
    Source:       string(e.Source),
    HasNarrative: e.Narrative != "",
    DetectedAt:   e.DetectedAt,
  }
}
