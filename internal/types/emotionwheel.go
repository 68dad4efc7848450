package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// EmotionWheel is one valid (primary, secondary, tertiary) triple from the
// feeling wheel. The full table defines which emotion paths are legal.
type EmotionWheel struct {
  gorm.Model
  ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  PrimaryEmotion   string    `gorm:"column:primary_emotion;size:50;not null;index;uniqueIndex:idx_emotion_wheel_unique,priority:1" json:"primary"`
  SecondaryEmotion string    `gorm:"column:secondary_emotion;size:50;not null;uniqueIndex:idx_emotion_wheel_unique,priority:2" json:"secondary"`
  TertiaryEmotion  string    `gorm:"column:tertiary_emotion;size:50;not null;uniqueIndex:idx_emotion_wheel_unique,priority:3" json:"tertiary"`
  Description      string    `gorm:"column:description;type:text" json:"description,omitempty"`
  CreatedAt        time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (EmotionWheel) TableName() string {
  return "emotion_wheel"
}
