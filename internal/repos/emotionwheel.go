package repos

import (
  "context"

  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type EmotionWheelRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.EmotionWheel) ([]*types.EmotionWheel, error)
  IsValidPath(ctx context.Context, tx *gorm.DB, primary, secondary, tertiary string) (bool, error)
  GetPrimaries(ctx context.Context, tx *gorm.DB) ([]string, error)
  GetByPrimary(ctx context.Context, tx *gorm.DB, primary string) ([]*types.EmotionWheel, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type emotionWheelRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEmotionWheelRepo(db *gorm.DB, baseLog *logger.Logger) EmotionWheelRepo {
  repoLog := baseLog.With("repo", "EmotionWheelRepo")
  return &emotionWheelRepo{db: db, log: repoLog}
}

func (r *emotionWheelRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.EmotionWheel) ([]*types.EmotionWheel, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(entries) == 0 {
    return []*types.EmotionWheel{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, err
  }
  return entries, nil
}

func (r *emotionWheelRepo) IsValidPath(ctx context.Context, tx *gorm.DB, primary, secondary, tertiary string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EmotionWheel{}).
    Where("primary_emotion = ? AND secondary_emotion = ? AND tertiary_emotion = ?", primary, secondary, tertiary).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *emotionWheelRepo) GetPrimaries(ctx context.Context, tx *gorm.DB) ([]string, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []string
  if err := transaction.WithContext(ctx).
    Model(&types.EmotionWheel{}).
    Distinct("primary_emotion").
    Order("primary_emotion ASC").
    Pluck("primary_emotion", &results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *emotionWheelRepo) GetByPrimary(ctx context.Context, tx *gorm.DB, primary string) ([]*types.EmotionWheel, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.EmotionWheel
  if err := transaction.WithContext(ctx).
    Where("primary_emotion = ?", primary).
    Order("secondary_emotion ASC, tertiary_emotion ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *emotionWheelRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EmotionWheel{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
