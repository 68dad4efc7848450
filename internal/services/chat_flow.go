package services

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

const minStoryLength = 10

const safeFramingMessage = "Hello, and welcome to this safe space.\n\n" +
  "Here you are free to talk about whatever you are feeling. There are no " +
  "wrong answers, and every feeling you have is valid.\n\n" +
  "Please tell me what you have been going through or feeling lately. You " +
  "can write as freely and honestly as you want."

type DetectedEmotion struct {
  Primary    string  `json:"primary"`
  Secondary  string  `json:"secondary"`
  Tertiary   string  `json:"tertiary"`
  Confidence float64 `json:"confidence"`
  Reasoning  string  `json:"reasoning,omitempty"`
}

type StartChatResult struct {
  SessionID  uuid.UUID       `json:"session_id"`
  FlowState  types.FlowState `json:"flow_state"`
  BotMessage string          `json:"bot_message"`
  AIMode     string          `json:"ai_mode"`
}

type SubmitStoryResult struct {
  SessionID      uuid.UUID            `json:"session_id"`
  FlowState      types.FlowState      `json:"flow_state"`
  Emotion        DetectedEmotion      `json:"emotion"`
  EmotionLogID   uuid.UUID            `json:"emotion_log_id"`
  Questions      []types.QuestionView `json:"questions"`
  TotalQuestions int                  `json:"total_questions"`
}

type ValidationSummary struct {
  Total   int     `json:"total"`
  Correct int     `json:"correct"`
  Score   float64 `json:"score"`
  Passed  bool    `json:"passed"`
}

type FinalEmotion struct {
  Path      string `json:"path"`
  Primary   string `json:"primary"`
  Secondary string `json:"secondary"`
  Tertiary  string `json:"tertiary"`
}

type SubmitAnswersResult struct {
  SessionID    uuid.UUID         `json:"session_id"`
  FlowState    types.FlowState   `json:"flow_state"`
  Validation   ValidationSummary `json:"validation"`
  FinalEmotion FinalEmotion      `json:"final_emotion"`
  Narrative    string            `json:"narrative"`
  JourneyNote  string            `json:"journey_note"`
}

// ChatFlowService drives the fixed conversation sequence
// SAFE_FRAMING -> STORYTELLING -> STORY_TOLD -> VALIDATE_EMOTION -> NARRATIVE -> COMPLETED.
// All mutation goes through here. Gateway calls run before the step's
// transaction so a gateway failure leaves no partial state behind, and the
// flow-state advance is an optimistic conditional update, so two racing
// submissions can never both commit.
type ChatFlowService interface {
  StartChat(ctx context.Context, userID uuid.UUID) (*StartChatResult, error)
  SubmitStory(ctx context.Context, sessionID, userID uuid.UUID, storyText string) (*SubmitStoryResult, error)
  SubmitAnswers(ctx context.Context, sessionID, userID uuid.UUID, submissions []SubmittedAnswer) (*SubmitAnswersResult, error)
  GetMessages(ctx context.Context, sessionID, userID uuid.UUID) ([]types.ChatMessageView, error)
}

type chatFlowService struct {
  db             *gorm.DB
  log            *logger.Logger
  locks          *sessionLocks
  sessionService SessionService
  sessionRepo    repos.SessionRepo
  questionRepo   repos.ReflectionQuestionRepo
  answerRepo     repos.QuestionAnswerRepo
  messageRepo    repos.ChatMessageRepo
  logRepo        repos.EmotionLogRepo
  emotionService EmotionService
  aiClient       AIClient
}

func NewChatFlowService(
  db *gorm.DB,
  log *logger.Logger,
  sessionService SessionService,
  sessionRepo repos.SessionRepo,
  questionRepo repos.ReflectionQuestionRepo,
  answerRepo repos.QuestionAnswerRepo,
  messageRepo repos.ChatMessageRepo,
  logRepo repos.EmotionLogRepo,
  emotionService EmotionService,
  aiClient AIClient,
) ChatFlowService {
  serviceLog := log.With("service", "ChatFlowService")
  return &chatFlowService{
    db:             db,
    log:            serviceLog,
    locks:          newSessionLocks(),
    sessionService: sessionService,
    sessionRepo:    sessionRepo,
    questionRepo:   questionRepo,
    answerRepo:     answerRepo,
    messageRepo:    messageRepo,
    logRepo:        logRepo,
    emotionService: emotionService,
    aiClient:       aiClient,
  }
}

func (s *chatFlowService) StartChat(ctx context.Context, userID uuid.UUID) (*StartChatResult, error) {
  var session *types.Session
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    created, err := s.sessionService.Create(ctx, tx, userID)
    if err != nil {
      return fmt.Errorf("create session: %w", err)
    }
    session = created

    framing := newBotMessage(session.ID, types.MessageText, safeFramingMessage, map[string]interface{}{
      "flowState": types.FlowSafeFraming,
    })
    if _, err := s.messageRepo.Create(ctx, tx, []*types.ChatMessage{framing}); err != nil {
      return fmt.Errorf("record framing message: %w", err)
    }

    // The framing message needs no user action, so the session moves
    // straight to STORYTELLING.
    ok, err := s.sessionRepo.AdvanceFlowState(ctx, tx, session.ID, types.FlowSafeFraming, types.FlowStorytelling)
    if err != nil {
      return err
    }
    if !ok {
      return apierr.Newf(http.StatusConflict, apierr.CodeInvalidFlowState, "session was modified concurrently")
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("Chat session started", "session_id", session.ID, "user_id", userID)
  return &StartChatResult{
    SessionID:  session.ID,
    FlowState:  types.FlowStorytelling,
    BotMessage: safeFramingMessage,
    AIMode:     s.aiClient.Mode(),
  }, nil
}

func (s *chatFlowService) SubmitStory(ctx context.Context, sessionID, userID uuid.UUID, storyText string) (*SubmitStoryResult, error) {
  trimmed := strings.TrimSpace(storyText)
  if len([]rune(trimmed)) < minStoryLength {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "story is too short, minimum %d characters", minStoryLength)
  }

  release, err := s.locks.Acquire(ctx, sessionID)
  if err != nil {
    return nil, err
  }
  defer release()

  session, err := s.sessionService.GetByID(ctx, sessionID, userID)
  if err != nil {
    return nil, err
  }
  if session.FlowState != types.FlowStorytelling {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidFlowState, "invalid flow state: expected %s, got %s", types.FlowStorytelling, session.FlowState)
  }

  history, err := s.sessionService.FormatHistoryForAI(ctx, userID, DefaultAIHistoryLimit)
  if err != nil {
    return nil, err
  }

  // The classifier runs before anything is written: if it times out or
  // fails, the session stays in STORYTELLING and the call can simply be
  // retried.
  aiResult, err := s.aiClient.DetectEmotion(ctx, DetectEmotionRequest{
    StoryText: trimmed,
    History:   history,
  })
  if err != nil {
    return nil, err
  }

  emotionKey := fmt.Sprintf("%s.%s.%s", aiResult.Primary, aiResult.Secondary, aiResult.Tertiary)
  questions, err := s.questionRepo.GetByEmotionKey(ctx, nil, emotionKey)
  if err != nil {
    return nil, err
  }
  if len(questions) == 0 {
    // Non-fatal: the flow proceeds with zero questions.
    s.log.Warn("No reflection questions for emotion path", "emotion_key", emotionKey)
  }

  summary := aiResult.StorySummary
  if summary == "" {
    summary = truncate(trimmed, 200)
  } else {
    summary = truncate(summary, 200)
  }

  var emotionLog *types.EmotionLog
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ok, err := s.sessionRepo.AdvanceFlowState(ctx, tx, session.ID, types.FlowStorytelling, types.FlowStoryTold)
    if err != nil {
      return err
    }
    if !ok {
      return apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidFlowState, "story was already submitted for this session")
    }

    if err := s.sessionRepo.UpdateStory(ctx, tx, session.ID, trimmed, summary); err != nil {
      return fmt.Errorf("save story: %w", err)
    }

    storyMsg := newUserMessage(session.ID, types.MessageStory, trimmed, nil)
    if _, err := s.messageRepo.Create(ctx, tx, []*types.ChatMessage{storyMsg}); err != nil {
      return fmt.Errorf("record story message: %w", err)
    }

    if err := s.sessionRepo.UpdateDetectedEmotion(ctx, tx, session.ID, aiResult.Primary, aiResult.Secondary, aiResult.Tertiary); err != nil {
      return fmt.Errorf("save detected emotion: %w", err)
    }

    confidence := aiResult.Confidence
    created, err := s.emotionService.SaveEmotionLog(ctx, tx, SaveEmotionLogInput{
      SessionID:  session.ID,
      UserID:     userID,
      Primary:    aiResult.Primary,
      Secondary:  aiResult.Secondary,
      Tertiary:   aiResult.Tertiary,
      Confidence: &confidence,
      Source:     types.SourceAIDetect,
    })
    if err != nil {
      return fmt.Errorf("save emotion log: %w", err)
    }
    emotionLog = created

    detectionText := fmt.Sprintf(
      "Thank you for sharing your story. Based on what you wrote, I sense that "+
        "you may be feeling %s, specifically %s (%s).",
      aiResult.Primary, aiResult.Secondary, aiResult.Tertiary)
    if len(questions) > 0 {
      detectionText += fmt.Sprintf("\n\nTo make sure, let's go through %d short reflection questions.", len(questions))
    } else {
      detectionText += "\n\n(Reflection questions are not available yet for this emotion.)"
    }
    botMessages := []*types.ChatMessage{
      newBotMessage(session.ID, types.MessageText, detectionText, map[string]interface{}{
        "emotionDetected": map[string]interface{}{
          "primary":    aiResult.Primary,
          "secondary":  aiResult.Secondary,
          "tertiary":   aiResult.Tertiary,
          "confidence": aiResult.Confidence,
        },
      }),
    }
    for _, q := range questions {
      botMessages = append(botMessages, newBotMessage(session.ID, types.MessageQuestion, q.QuestionText, map[string]interface{}{
        "questionId":    q.ID,
        "questionIndex": q.QuestionIndex,
        "options":       q.Options(),
      }))
    }
    if _, err := s.messageRepo.Create(ctx, tx, botMessages); err != nil {
      return fmt.Errorf("record detection messages: %w", err)
    }

    ok, err = s.sessionRepo.AdvanceFlowState(ctx, tx, session.ID, types.FlowStoryTold, types.FlowValidateEmotion)
    if err != nil {
      return err
    }
    if !ok {
      return apierr.Newf(http.StatusConflict, apierr.CodeInvalidFlowState, "session was modified concurrently")
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("Story submitted and emotion detected",
    "session_id", session.ID,
    "emotion_key", emotionKey,
    "confidence", aiResult.Confidence,
    "questions", len(questions))

  views := make([]types.QuestionView, 0, len(questions))
  for _, q := range questions {
    views = append(views, q.ToQuestionView())
  }
  return &SubmitStoryResult{
    SessionID: session.ID,
    FlowState: types.FlowValidateEmotion,
    Emotion: DetectedEmotion{
      Primary:    aiResult.Primary,
      Secondary:  aiResult.Secondary,
      Tertiary:   aiResult.Tertiary,
      Confidence: aiResult.Confidence,
      Reasoning:  aiResult.Reasoning,
    },
    EmotionLogID:   emotionLog.ID,
    Questions:      views,
    TotalQuestions: len(views),
  }, nil
}

func (s *chatFlowService) SubmitAnswers(ctx context.Context, sessionID, userID uuid.UUID, submissions []SubmittedAnswer) (*SubmitAnswersResult, error) {
  if len(submissions) == 0 {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "answers must be a non-empty list")
  }
  seen := make(map[uuid.UUID]bool, len(submissions))
  for _, sub := range submissions {
    if seen[sub.QuestionID] {
      return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeDuplicateAnswer, "question %s was answered more than once", sub.QuestionID)
    }
    seen[sub.QuestionID] = true
  }

  release, err := s.locks.Acquire(ctx, sessionID)
  if err != nil {
    return nil, err
  }
  defer release()

  session, err := s.sessionService.GetByIDEager(ctx, sessionID, userID)
  if err != nil {
    return nil, err
  }
  if session.FlowState != types.FlowValidateEmotion {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidFlowState, "invalid flow state: expected %s, got %s", types.FlowValidateEmotion, session.FlowState)
  }

  emotionKey := session.EmotionKey()
  if emotionKey == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeNoEmotionDetected, "no emotion has been detected for this session")
  }

  for _, existing := range session.Answers {
    if seen[existing.QuestionID] {
      return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeDuplicateAnswer, "question %s was already answered in this session", existing.QuestionID)
    }
  }

  questions, err := s.questionRepo.GetByEmotionKey(ctx, nil, emotionKey)
  if err != nil {
    return nil, err
  }

  scoreResult, err := ScoreAnswers(questions, submissions)
  if err != nil {
    return nil, err
  }

  detected := FinalEmotion{
    Path:      emotionKey,
    Primary:   session.DetectedPrimary,
    Secondary: session.DetectedSecondary,
    Tertiary:  session.DetectedTertiary,
  }

  history, err := s.sessionService.FormatHistoryForAI(ctx, userID, DefaultAIHistoryLimit)
  if err != nil {
    return nil, err
  }

  // Narrative generation also runs before the transaction. On failure the
  // session stays in VALIDATE_EMOTION with no answers persisted, so the
  // caller can resubmit the same answers.
  narrativeResult, err := s.aiClient.GenerateNarrative(ctx, GenerateNarrativeRequest{
    StoryText:       session.StoryText,
    EmotionPath:     emotionKey,
    ValidationScore: scoreResult.Score,
    History:         history,
  })
  if err != nil {
    return nil, err
  }

  now := time.Now()
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ok, err := s.sessionRepo.AdvanceFlowState(ctx, tx, session.ID, types.FlowValidateEmotion, types.FlowNarrative)
    if err != nil {
      return err
    }
    if !ok {
      return apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidFlowState, "answers were already submitted for this session")
    }

    answerRows := make([]*types.QuestionAnswer, 0, len(scoreResult.Answers))
    answerMessages := make([]*types.ChatMessage, 0, len(scoreResult.Answers))
    for _, scored := range scoreResult.Answers {
      answerRows = append(answerRows, &types.QuestionAnswer{
        ID:             uuid.New(),
        SessionID:      session.ID,
        QuestionID:     scored.Question.ID,
        EmotionKey:     emotionKey,
        QuestionIndex:  scored.Question.QuestionIndex,
        QuestionText:   scored.Question.QuestionText,
        UserAnswer:     scored.UserAnswer,
        ExpectedAnswer: scored.Question.ExpectedAnswer,
        IsCorrect:      scored.IsCorrect,
      })
      answerMessages = append(answerMessages, newUserMessage(session.ID, types.MessageAnswer,
        fmt.Sprintf("Answer: %s", scored.UserAnswer), map[string]interface{}{
          "questionId": scored.Question.ID,
          "answer":     scored.UserAnswer,
        }))
    }
    if _, err := s.answerRepo.Create(ctx, tx, answerRows); err != nil {
      return fmt.Errorf("save answers: %w", err)
    }
    if _, err := s.messageRepo.Create(ctx, tx, answerMessages); err != nil {
      return fmt.Errorf("record answer messages: %w", err)
    }

    // Whether validation passed or not, the final emotion stays the
    // detected one. There is no re-detection or user-override path yet.
    if err := s.sessionRepo.UpdateFinalEmotion(ctx, tx, session.ID, detected.Primary, detected.Secondary, detected.Tertiary); err != nil {
      return fmt.Errorf("save final emotion: %w", err)
    }

    if len(session.EmotionLogs) > 0 {
      logRow := session.EmotionLogs[0]
      if err := s.logRepo.UpdateFields(ctx, tx, logRow.ID, map[string]interface{}{
        "narrative":        narrativeResult.Narrative,
        "journey_note":     narrativeResult.JourneyNote,
        "validation_score": scoreResult.Correct,
        "source":           types.SourceValidated,
      }); err != nil {
        return fmt.Errorf("update emotion log: %w", err)
      }
    } else {
      s.log.Warn("Session has no emotion log to amend", "session_id", session.ID)
    }

    narrativeMsg := newBotMessage(session.ID, types.MessageNarrative, narrativeResult.Narrative, map[string]interface{}{
      "emotionPath":     emotionKey,
      "validationScore": scoreResult.Score,
      "passed":          scoreResult.Passed,
    })
    if _, err := s.messageRepo.Create(ctx, tx, []*types.ChatMessage{narrativeMsg}); err != nil {
      return fmt.Errorf("record narrative message: %w", err)
    }

    ok, err = s.sessionRepo.AdvanceFlowState(ctx, tx, session.ID, types.FlowNarrative, types.FlowCompleted)
    if err != nil {
      return err
    }
    if !ok {
      return apierr.Newf(http.StatusConflict, apierr.CodeInvalidFlowState, "session was modified concurrently")
    }
    if err := s.sessionRepo.MarkCompleted(ctx, tx, session.ID, now); err != nil {
      return fmt.Errorf("complete session: %w", err)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("Answers validated and narrative generated",
    "session_id", session.ID,
    "emotion_key", emotionKey,
    "correct", scoreResult.Correct,
    "total", scoreResult.Total,
    "passed", scoreResult.Passed)

  return &SubmitAnswersResult{
    SessionID: session.ID,
    FlowState: types.FlowCompleted,
    Validation: ValidationSummary{
      Total:   scoreResult.Total,
      Correct: scoreResult.Correct,
      Score:   scoreResult.Score,
      Passed:  scoreResult.Passed,
    },
    FinalEmotion: detected,
    Narrative:    narrativeResult.Narrative,
    JourneyNote:  narrativeResult.JourneyNote,
  }, nil
}

func (s *chatFlowService) GetMessages(ctx context.Context, sessionID, userID uuid.UUID) ([]types.ChatMessageView, error) {
  if _, err := s.sessionService.GetByID(ctx, sessionID, userID); err != nil {
    return nil, err
  }
  messages, err := s.messageRepo.GetBySessionID(ctx, nil, sessionID)
  if err != nil {
    return nil, err
  }
  views := make([]types.ChatMessageView, 0, len(messages))
  for _, m := range messages {
    views = append(views, m.ToChatFormat())
  }
  return views, nil
}

func newUserMessage(sessionID uuid.UUID, msgType types.MessageType, text string, metadata map[string]interface{}) *types.ChatMessage {
  return newMessage(sessionID, types.RoleUser, msgType, text, metadata)
}

func newBotMessage(sessionID uuid.UUID, msgType types.MessageType, text string, metadata map[string]interface{}) *types.ChatMessage {
  return newMessage(sessionID, types.RoleBot, msgType, text, metadata)
}

func newMessage(sessionID uuid.UUID, role types.MessageRole, msgType types.MessageType, text string, metadata map[string]interface{}) *types.ChatMessage {
  msg := &types.ChatMessage{
    ID:          uuid.New(),
    SessionID:   sessionID,
    Role:        role,
    MessageType: msgType,
    Message:     text,
  }
  if metadata != nil {
    raw, err := json.Marshal(metadata)
    if err == nil {
      msg.Metadata = datatypes.JSON(raw)
    }
  }
  return msg
}

func truncate(s string, max int) string {
  runes := []rune(s)
  if len(runes) <= max {
    return s
  }
  return string(runes[:max])
}
