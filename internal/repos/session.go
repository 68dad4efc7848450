package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type SessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error)
  GetByIDForUserEager(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error)
  // AdvanceFlowState performs the optimistic check-and-set: the update only
  // lands if the row still holds from. Returns false when the row was in a
  // different state, which means a concurrent request won the race.
  AdvanceFlowState(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, from, to types.FlowState) (bool, error)
  UpdateStory(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, storyText, storySummary string) error
  UpdateDetectedEmotion(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, primary, secondary, tertiary string) error
  UpdateFinalEmotion(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, primary, secondary, tertiary string) error
  MarkCompleted(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time) error
  MarkAbandoned(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time) error
  GetCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Session, error)
}

type sessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
  repoLog := baseLog.With("repo", "SessionRepo")
  return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(sessions) == 0 {
    return []*types.Session{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
    return nil, err
  }
  return sessions, nil
}

func (r *sessionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var result types.Session
  if err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", sessionID, userID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *sessionRepo) GetByIDForUserEager(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var result types.Session
  if err := transaction.WithContext(ctx).
    Preload("EmotionLogs", func(db *gorm.DB) *gorm.DB {
      return db.Order("created_at ASC")
    }).
    Preload("Answers", func(db *gorm.DB) *gorm.DB {
      return db.Order("question_index ASC")
    }).
    Preload("Messages", func(db *gorm.DB) *gorm.DB {
      return db.Order("created_at ASC")
    }).
    Where("id = ? AND user_id = ?", sessionID, userID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *sessionRepo) AdvanceFlowState(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, from, to types.FlowState) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  res := transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ? AND flow_state = ?", sessionID, from).
    Update("flow_state", to)
  if res.Error != nil {
    return false, res.Error
  }
  return res.RowsAffected == 1, nil
}

func (r *sessionRepo) UpdateStory(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, storyText, storySummary string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "story_text":    storyText,
      "story_summary": storySummary,
    }).Error
}

func (r *sessionRepo) UpdateDetectedEmotion(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, primary, secondary, tertiary string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "detected_primary":   primary,
      "detected_secondary": secondary,
      "detected_tertiary":  tertiary,
    }).Error
}

func (r *sessionRepo) UpdateFinalEmotion(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, primary, secondary, tertiary string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "final_primary":   primary,
      "final_secondary": secondary,
      "final_tertiary":  tertiary,
    }).Error
}

func (r *sessionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "status":   types.SessionCompleted,
      "ended_at": endedAt,
    }).Error
}

func (r *sessionRepo) MarkAbandoned(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "status":   types.SessionAbandoned,
      "ended_at": endedAt,
    }).Error
}

func (r *sessionRepo) GetCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Session
  if err := transaction.WithContext(ctx).
    Preload("EmotionLogs", "source = ?", types.SourceValidated).
    Where("user_id = ? AND status = ?", userID, types.SessionCompleted).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
