package services

import (
  "context"
  "errors"
  "net/http"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

const (
  // Window sizes for the journey aggregator: a small window feeds the AI
  // calls, a larger one backs the human-facing history view. Hard caps,
  // not pagination cursors.
  DefaultAIHistoryLimit      = 3
  DefaultDisplayHistoryLimit = 10
)

// HistoryItem is the human-facing projection of a completed session.
type HistoryItem struct {
  ID           uuid.UUID             `json:"id"`
  StorySummary string                `json:"story_summary"`
  Emotion      *AIHistoryEmotion     `json:"emotion"`
  Status       types.SessionStatus   `json:"status"`
  CreatedAt    time.Time             `json:"created_at"`
}

type SessionService interface {
  Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Session, error)
  GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error)
  GetByIDEager(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error)
  GetUserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryItem, error)
  // FormatHistoryForAI assembles the bounded cross-session context object
  // handed to the classifier and narrative-generator gateways.
  FormatHistoryForAI(ctx context.Context, userID uuid.UUID, limit int) ([]AIHistoryEntry, error)
  Abandon(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error)
}

type sessionService struct {
  db          *gorm.DB
  log         *logger.Logger
  sessionRepo repos.SessionRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo) SessionService {
  serviceLog := log.With("service", "SessionService")
  return &sessionService{db: db, log: serviceLog, sessionRepo: sessionRepo}
}

func (s *sessionService) Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Session, error) {
  session := &types.Session{
    ID:        uuid.New(),
    UserID:    userID,
    FlowState: types.FlowSafeFraming,
    Status:    types.SessionActive,
    StartedAt: time.Now(),
  }
  if _, err := s.sessionRepo.Create(ctx, tx, []*types.Session{session}); err != nil {
    return nil, err
  }
  return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error) {
  session, err := s.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID)
  if err != nil {
    return nil, notFoundAsSessionMiss(err)
  }
  return session, nil
}

func (s *sessionService) GetByIDEager(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error) {
  session, err := s.sessionRepo.GetByIDForUserEager(ctx, nil, sessionID, userID)
  if err != nil {
    return nil, notFoundAsSessionMiss(err)
  }
  return session, nil
}

func (s *sessionService) GetUserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryItem, error) {
  if limit <= 0 {
    limit = DefaultDisplayHistoryLimit
  }
  sessions, err := s.sessionRepo.GetCompletedByUser(ctx, nil, userID, limit)
  if err != nil {
    return nil, err
  }
  items := make([]HistoryItem, 0, len(sessions))
  for _, session := range sessions {
    item := HistoryItem{
      ID:           session.ID,
      StorySummary: session.StorySummary,
      Status:       session.Status,
      CreatedAt:    session.CreatedAt,
    }
    if len(session.EmotionLogs) > 0 {
      log := session.EmotionLogs[0]
      item.Emotion = &AIHistoryEmotion{
        Primary:    log.PrimaryEmotion,
        Secondary:  log.SecondaryEmotion,
        Tertiary:   log.TertiaryEmotion,
        Confidence: log.Confidence,
      }
    }
    items = append(items, item)
  }
  return items, nil
}

func (s *sessionService) FormatHistoryForAI(ctx context.Context, userID uuid.UUID, limit int) ([]AIHistoryEntry, error) {
  if limit <= 0 {
    limit = DefaultAIHistoryLimit
  }
  sessions, err := s.sessionRepo.GetCompletedByUser(ctx, nil, userID, limit)
  if err != nil {
    return nil, err
  }
  entries := make([]AIHistoryEntry, 0, len(sessions))
  for _, session := range sessions {
    entry := AIHistoryEntry{
      SessionDate:  session.CreatedAt,
      StorySummary: session.StorySummary,
    }
    if entry.StorySummary == "" {
      entry.StorySummary = "(no summary)"
    }
    if len(session.EmotionLogs) > 0 {
      log := session.EmotionLogs[0]
      entry.Emotion = &AIHistoryEmotion{
        Primary:    log.PrimaryEmotion,
        Secondary:  log.SecondaryEmotion,
        Tertiary:   log.TertiaryEmotion,
        Confidence: log.Confidence,
      }
      entry.JourneyNote = log.JourneyNote
    }
    entries = append(entries, entry)
  }
  return entries, nil
}

func (s *sessionService) Abandon(ctx context.Context, sessionID, userID uuid.UUID) (*types.Session, error) {
  session, err := s.GetByID(ctx, sessionID, userID)
  if err != nil {
    return nil, err
  }
  endedAt := time.Now()
  if err := s.sessionRepo.MarkAbandoned(ctx, nil, session.ID, endedAt); err != nil {
    return nil, err
  }
  session.Status = types.SessionAbandoned
  session.EndedAt = &endedAt
  return session, nil
}

// notFoundAsSessionMiss collapses "does not exist" and "owned by someone else"
// into the same 404 so session existence never leaks across users.
func notFoundAsSessionMiss(err error) error {
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return apierr.Newf(http.StatusNotFound, apierr.CodeSessionNotFound, "session not found")
  }
  return err
}
