package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// ReflectionQuestion is immutable catalog data: one ABCD question in the
// validation set for an emotion key ("Primary.Secondary.Tertiary").
type ReflectionQuestion struct {
  gorm.Model
  ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  EmotionKey    string    `gorm:"column:emotion_key;size:100;not null;uniqueIndex:idx_reflection_question_key_index,priority:1" json:"emotion_key"`
  QuestionIndex int       `gorm:"column:question_index;not null;uniqueIndex:idx_reflection_question_key_index,priority:2" json:"question_index"`
  QuestionText  string    `gorm:"column:question_text;type:text;not null" json:"question_text"`

  OptionA string `gorm:"column:option_a;type:text;not null" json:"option_a"`
  OptionB string `gorm:"column:option_b;type:text;not null" json:"option_b"`
  OptionC string `gorm:"column:option_c;type:text;not null" json:"option_c"`
  OptionD string `gorm:"column:option_d;type:text;not null" json:"option_d"`

  ExpectedAnswer string `gorm:"column:expected_answer;size:1;not null" json:"-"`

  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ReflectionQuestion) TableName() string {
  return "reflection_question"
}

type QuestionOption struct {
  Key  string `json:"key"`
  Text string `json:"text"`
}

func (q *ReflectionQuestion) Options() []QuestionOption {
  return []QuestionOption{
    {Key: "A", Text: q.OptionA},
    {Key: "B", Text: q.OptionB},
    {Key: "C", Text: q.OptionC},
    {Key: "D", Text: q.OptionD},
  }
}

// QuestionView is the client-facing shape; the expected answer never leaves
// the server.
type QuestionView struct {
  ID            uuid.UUID        `json:"id"`
  QuestionIndex int              `json:"question_index"`
  QuestionText  string           `json:"question_text"`
  Options       []QuestionOption `json:"options"`
}

func (q *ReflectionQuestion) ToQuestionView() QuestionView {
  return QuestionView{
    ID:            q.ID,
    QuestionIndex: q.QuestionIndex,
    QuestionText:  q.QuestionText,
    Options:       q.Options(),
  }
}
