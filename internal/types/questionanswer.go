package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// QuestionAnswer snapshots a question as it was asked, so later catalog edits
// never retroactively alter scoring. One row per (session, question).
type QuestionAnswer struct {
  gorm.Model
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_question_answer_unique,priority:1" json:"session_id"`
  Session    *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
  QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_question_answer_unique,priority:2" json:"question_id"`

  EmotionKey    string `gorm:"column:emotion_key;size:100;not null" json:"emotion_key"`
  QuestionIndex int    `gorm:"column:question_index;not null" json:"question_index"`
  QuestionText  string `gorm:"column:question_text;type:text;not null" json:"question_text"`

  UserAnswer     string `gorm:"column:user_answer;size:1;not null" json:"user_answer"`
  ExpectedAnswer string `gorm:"column:expected_answer;size:1;not null" json:"expected_answer"`
  IsCorrect      bool   `gorm:"column:is_correct;not null" json:"is_correct"`

  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuestionAnswer) TableName() string {
  return "question_answer"
}
