package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type ReflectionQuestionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, questions []*types.ReflectionQuestion) ([]*types.ReflectionQuestion, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.ReflectionQuestion, error)
  GetByEmotionKey(ctx context.Context, tx *gorm.DB, emotionKey string) ([]*types.ReflectionQuestion, error)
  CountByEmotionKey(ctx context.Context, tx *gorm.DB, emotionKey string) (int64, error)
}

type reflectionQuestionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewReflectionQuestionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionQuestionRepo {
  repoLog := baseLog.With("repo", "ReflectionQuestionRepo")
  return &reflectionQuestionRepo{db: db, log: repoLog}
}

func (r *reflectionQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.ReflectionQuestion) ([]*types.ReflectionQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(questions) == 0 {
    return []*types.ReflectionQuestion{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
    return nil, err
  }
  return questions, nil
}

func (r *reflectionQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.ReflectionQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.ReflectionQuestion
  if len(questionIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", questionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *reflectionQuestionRepo) GetByEmotionKey(ctx context.Context, tx *gorm.DB, emotionKey string) ([]*types.ReflectionQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.ReflectionQuestion
  if err := transaction.WithContext(ctx).
    Where("emotion_key = ?", emotionKey).
    Order("question_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *reflectionQuestionRepo) CountByEmotionKey(ctx context.Context, tx *gorm.DB, emotionKey string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.ReflectionQuestion{}).
    Where("emotion_key = ?", emotionKey).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
