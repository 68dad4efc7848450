package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type QuestionAnswerRepo interface {
  Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionAnswer) ([]*types.QuestionAnswer, error)
  GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.QuestionAnswer, error)
  ExistsForQuestion(ctx context.Context, tx *gorm.DB, sessionID, questionID uuid.UUID) (bool, error)
}

type questionAnswerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuestionAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuestionAnswerRepo {
  repoLog := baseLog.With("repo", "QuestionAnswerRepo")
  return &questionAnswerRepo{db: db, log: repoLog}
}

func (r *questionAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionAnswer) ([]*types.QuestionAnswer, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(answers) == 0 {
    return []*types.QuestionAnswer{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
    return nil, err
  }
  return answers, nil
}

func (r *questionAnswerRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.QuestionAnswer, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.QuestionAnswer
  if err := transaction.WithContext(ctx).
    Where("session_id = ?", sessionID).
    Order("question_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *questionAnswerRepo) ExistsForQuestion(ctx context.Context, tx *gorm.DB, sessionID, questionID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.QuestionAnswer{}).
    Where("session_id = ? AND question_id = ?", sessionID, questionID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
