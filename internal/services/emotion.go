package services

import (
  "context"
  "net/http"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

// EmotionMetadata groups a primary emotion's taxonomy subtree by secondary.
type EmotionMetadata struct {
  Primary     string               `json:"primary"`
  Secondaries []SecondaryEmotions  `json:"secondaries"`
}

type SecondaryEmotions struct {
  Secondary  string   `json:"secondary"`
  Tertiaries []string `json:"tertiaries"`
}

type SaveEmotionLogInput struct {
  SessionID  uuid.UUID
  UserID     uuid.UUID
  Primary    string
  Secondary  string
  Tertiary   string
  Confidence *float64
  Source     types.DetectionSource
}

type EmotionService interface {
  GetReflectionQuestions(ctx context.Context, emotionKey string) ([]*types.ReflectionQuestion, error)
  ValidateEmotionPath(ctx context.Context, primary, secondary, tertiary string) (bool, error)
  GetPrimaryEmotions(ctx context.Context) ([]string, error)
  GetEmotionMetadata(ctx context.Context, primary string) (*EmotionMetadata, error)
  SaveEmotionLog(ctx context.Context, tx *gorm.DB, input SaveEmotionLogInput) (*types.EmotionLog, error)
  GetUserEmotionJourney(ctx context.Context, userID uuid.UUID, limit int) ([]types.HistorySummary, error)
}

type emotionService struct {
  db           *gorm.DB
  log          *logger.Logger
  wheelRepo    repos.EmotionWheelRepo
  questionRepo repos.ReflectionQuestionRepo
  logRepo      repos.EmotionLogRepo
}

func NewEmotionService(
  db *gorm.DB,
  log *logger.Logger,
  wheelRepo repos.EmotionWheelRepo,
  questionRepo repos.ReflectionQuestionRepo,
  logRepo repos.EmotionLogRepo,
) EmotionService {
  serviceLog := log.With("service", "EmotionService")
  return &emotionService{
    db:           db,
    log:          serviceLog,
    wheelRepo:    wheelRepo,
    questionRepo: questionRepo,
    logRepo:      logRepo,
  }
}

func (s *emotionService) GetReflectionQuestions(ctx context.Context, emotionKey string) ([]*types.ReflectionQuestion, error) {
  if strings.TrimSpace(emotionKey) == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "emotion path is required")
  }
  questions, err := s.questionRepo.GetByEmotionKey(ctx, nil, emotionKey)
  if err != nil {
    return nil, err
  }
  if len(questions) == 0 {
    return nil, apierr.Newf(http.StatusNotFound, apierr.CodeQuestionNotFound, "no questions found for emotion path %q", emotionKey)
  }
  return questions, nil
}

func (s *emotionService) ValidateEmotionPath(ctx context.Context, primary, secondary, tertiary string) (bool, error) {
  return s.wheelRepo.IsValidPath(ctx, nil, primary, secondary, tertiary)
}

func (s *emotionService) GetPrimaryEmotions(ctx context.Context) ([]string, error) {
  return s.wheelRepo.GetPrimaries(ctx, nil)
}

func (s *emotionService) GetEmotionMetadata(ctx context.Context, primary string) (*EmotionMetadata, error) {
  entries, err := s.wheelRepo.GetByPrimary(ctx, nil, primary)
  if err != nil {
    return nil, err
  }
  if len(entries) == 0 {
    return nil, apierr.Newf(http.StatusNotFound, apierr.CodeEmotionNotFound, "emotion %q not found", primary)
  }
  grouped := make(map[string]*SecondaryEmotions)
  var order []string
  for _, entry := range entries {
    sec := entry.SecondaryEmotion
    group, ok := grouped[sec]
    if !ok {
      group = &SecondaryEmotions{Secondary: sec}
      grouped[sec] = group
      order = append(order, sec)
    }
    if entry.TertiaryEmotion != "" {
      group.Tertiaries = append(group.Tertiaries, entry.TertiaryEmotion)
    }
  }
  metadata := &EmotionMetadata{Primary: primary}
  for _, sec := range order {
    metadata.Secondaries = append(metadata.Secondaries, *grouped[sec])
  }
  return metadata, nil
}

func (s *emotionService) SaveEmotionLog(ctx context.Context, tx *gorm.DB, input SaveEmotionLogInput) (*types.EmotionLog, error) {
  source := input.Source
  if source == "" {
    source = types.SourceAIDetect
  }
  log := &types.EmotionLog{
    ID:               uuid.New(),
    SessionID:        input.SessionID,
    UserID:           input.UserID,
    PrimaryEmotion:   input.Primary,
    SecondaryEmotion: input.Secondary,
    TertiaryEmotion:  input.Tertiary,
    Confidence:       input.Confidence,
    Source:           source,
    DetectedAt:       time.Now(),
  }
  if _, err := s.logRepo.Create(ctx, tx, []*types.EmotionLog{log}); err != nil {
    return nil, err
  }
  return log, nil
}

func (s *emotionService) GetUserEmotionJourney(ctx context.Context, userID uuid.UUID, limit int) ([]types.HistorySummary, error) {
  if limit <= 0 {
    limit = DefaultDisplayHistoryLimit
  }
  logs, err := s.logRepo.GetByUserID(ctx, nil, userID, limit)
  if err != nil {
    return nil, err
  }
  summaries := make([]types.HistorySummary, 0, len(logs))
  for _, log := range logs {
    summaries = append(summaries, log.ToHistorySummary())
  }
  return summaries, nil
}
