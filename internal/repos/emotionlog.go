package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type EmotionLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, logs []*types.EmotionLog) ([]*types.EmotionLog, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, logIDs []uuid.UUID) ([]*types.EmotionLog, error)
  GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.EmotionLog, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.EmotionLog, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, logID uuid.UUID, fields map[string]interface{}) error
}

type emotionLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEmotionLogRepo(db *gorm.DB, baseLog *logger.Logger) EmotionLogRepo {
  repoLog := baseLog.With("repo", "EmotionLogRepo")
  return &emotionLogRepo{db: db, log: repoLog}
}

func (r *emotionLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.EmotionLog) ([]*types.EmotionLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(logs) == 0 {
    return []*types.EmotionLog{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
    return nil, err
  }
  return logs, nil
}

func (r *emotionLogRepo) GetByIDs(ctx context.Context, tx *gorm.DB, logIDs []uuid.UUID) ([]*types.EmotionLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.EmotionLog
  if len(logIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", logIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *emotionLogRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.EmotionLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.EmotionLog
  if len(sessionIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("session_id IN ?", sessionIDs).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *emotionLogRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.EmotionLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.EmotionLog
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("detected_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *emotionLogRepo) UpdateFields(ctx context.Context, tx *gorm.DB, logID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(fields) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.EmotionLog{}).
    Where("id = ?", logID).
    Updates(fields).Error
}
