package services

import (
  "context"
  "fmt"
  "net/http"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/db"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

const testStory = "Lately I feel like everyone around me has drifted away and I spend my evenings completely alone."

type flowTestEnv struct {
  gdb            *gorm.DB
  log            *logger.Logger
  sessionRepo    repos.SessionRepo
  questionRepo   repos.ReflectionQuestionRepo
  answerRepo     repos.QuestionAnswerRepo
  messageRepo    repos.ChatMessageRepo
  logRepo        repos.EmotionLogRepo
  wheelRepo      repos.EmotionWheelRepo
  sessionService SessionService
  emotionService EmotionService
  userID         uuid.UUID
}

func newFlowTestEnv(t *testing.T) *flowTestEnv {
  t.Helper()
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
  require.NoError(t, err)
  require.NoError(t, db.AutoMigrate(gdb))

  log := logger.NewNop()
  env := &flowTestEnv{
    gdb:          gdb,
    log:          log,
    sessionRepo:  repos.NewSessionRepo(gdb, log),
    questionRepo: repos.NewReflectionQuestionRepo(gdb, log),
    answerRepo:   repos.NewQuestionAnswerRepo(gdb, log),
    messageRepo:  repos.NewChatMessageRepo(gdb, log),
    logRepo:      repos.NewEmotionLogRepo(gdb, log),
    wheelRepo:    repos.NewEmotionWheelRepo(gdb, log),
  }
  env.sessionService = NewSessionService(gdb, log, env.sessionRepo)
  env.emotionService = NewEmotionService(gdb, log, env.wheelRepo, env.questionRepo, env.logRepo)
  env.userID = env.createUser(t, "flow-test@example.com")
  return env
}

func (e *flowTestEnv) createUser(t *testing.T, email string) uuid.UUID {
  t.Helper()
  user := &types.User{ID: uuid.New(), Name: "Test User", Email: email, Password: "irrelevant"}
  require.NoError(t, e.gdb.Create(user).Error)
  return user.ID
}

func (e *flowTestEnv) flowWith(ai AIClient) ChatFlowService {
  return NewChatFlowService(
    e.gdb,
    e.log,
    e.sessionService,
    e.sessionRepo,
    e.questionRepo,
    e.answerRepo,
    e.messageRepo,
    e.logRepo,
    e.emotionService,
    ai,
  )
}

func (e *flowTestEnv) flow() ChatFlowService {
  return e.flowWith(NewMockAIClient(e.log))
}

// seedQuestions inserts the five-question set the mock detection resolves to.
func (e *flowTestEnv) seedQuestions(t *testing.T, emotionKey string) []*types.ReflectionQuestion {
  t.Helper()
  questions := make([]*types.ReflectionQuestion, 0, 5)
  for i := 1; i <= 5; i++ {
    questions = append(questions, &types.ReflectionQuestion{
      ID:             uuid.New(),
      EmotionKey:     emotionKey,
      QuestionIndex:  i,
      QuestionText:   fmt.Sprintf("Question %d", i),
      OptionA:        "Option A",
      OptionB:        "Option B",
      OptionC:        "Option C",
      OptionD:        "Option D",
      ExpectedAnswer: "C",
    })
  }
  created, err := e.questionRepo.Create(context.Background(), nil, questions)
  require.NoError(t, err)
  return created
}

func (e *flowTestEnv) session(t *testing.T, sessionID uuid.UUID) *types.Session {
  t.Helper()
  session, err := e.sessionRepo.GetByIDForUser(context.Background(), nil, sessionID, e.userID)
  require.NoError(t, err)
  return session
}

func (e *flowTestEnv) messageCount(t *testing.T, sessionID uuid.UUID) int64 {
  t.Helper()
  count, err := e.messageRepo.CountBySessionID(context.Background(), nil, sessionID)
  require.NoError(t, err)
  return count
}

// flakyAIClient wraps another client and fails the first N calls of each
// gateway, then delegates.
type flakyAIClient struct {
  AIClient
  failDetect    int
  failNarrative int
}

func (c *flakyAIClient) DetectEmotion(ctx context.Context, req DetectEmotionRequest) (*DetectEmotionResult, error) {
  if c.failDetect > 0 {
    c.failDetect--
    return nil, apierr.Newf(http.StatusServiceUnavailable, apierr.CodeAIUnavailable, "ai service is unreachable")
  }
  return c.AIClient.DetectEmotion(ctx, req)
}

func (c *flakyAIClient) GenerateNarrative(ctx context.Context, req GenerateNarrativeRequest) (*GenerateNarrativeResult, error) {
  if c.failNarrative > 0 {
    c.failNarrative--
    return nil, apierr.Newf(http.StatusServiceUnavailable, apierr.CodeAIUnavailable, "ai service is unreachable")
  }
  return c.AIClient.GenerateNarrative(ctx, req)
}

func answersFromViews(views []types.QuestionView, letters ...string) []SubmittedAnswer {
  subs := make([]SubmittedAnswer, 0, len(letters))
  for i, letter := range letters {
    subs = append(subs, SubmittedAnswer{QuestionID: views[i].ID, UserAnswer: letter})
  }
  return subs
}

func TestChatFlowCompletesEndToEnd(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  assert.Equal(t, types.FlowStorytelling, started.FlowState)
  assert.NotEmpty(t, started.BotMessage)
  assert.Equal(t, "mock", started.AIMode)
  assert.EqualValues(t, 1, env.messageCount(t, started.SessionID))

  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)
  assert.Equal(t, types.FlowValidateEmotion, storyResult.FlowState)
  assert.Equal(t, "Sad", storyResult.Emotion.Primary)
  assert.Equal(t, "Lonely", storyResult.Emotion.Secondary)
  assert.Equal(t, "Isolated", storyResult.Emotion.Tertiary)
  assert.Equal(t, 0.85, storyResult.Emotion.Confidence)
  require.Len(t, storyResult.Questions, 5)
  // framing + story + detection + 5 questions
  assert.EqualValues(t, 8, env.messageCount(t, started.SessionID))

  session := env.session(t, started.SessionID)
  assert.Equal(t, testStory, session.StoryText)
  assert.Equal(t, "Sad", session.DetectedPrimary)
  assert.Empty(t, session.FinalPrimary)

  answersResult, err := flow.SubmitAnswers(ctx, started.SessionID, env.userID,
    answersFromViews(storyResult.Questions, "C", "C", "C", "C", "A"))
  require.NoError(t, err)
  assert.Equal(t, types.FlowCompleted, answersResult.FlowState)
  assert.Equal(t, 5, answersResult.Validation.Total)
  assert.Equal(t, 4, answersResult.Validation.Correct)
  assert.Equal(t, 80.0, answersResult.Validation.Score)
  assert.True(t, answersResult.Validation.Passed)
  assert.Equal(t, "Sad.Lonely.Isolated", answersResult.FinalEmotion.Path)
  assert.NotEmpty(t, answersResult.Narrative)
  assert.NotEmpty(t, answersResult.JourneyNote)
  // + 5 answers + narrative
  assert.EqualValues(t, 14, env.messageCount(t, started.SessionID))

  session = env.session(t, started.SessionID)
  assert.Equal(t, types.FlowCompleted, session.FlowState)
  assert.Equal(t, types.SessionCompleted, session.Status)
  assert.Equal(t, "Sad", session.FinalPrimary)
  assert.Equal(t, "Isolated", session.FinalTertiary)
  require.NotNil(t, session.EndedAt)

  logs, err := env.logRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{started.SessionID})
  require.NoError(t, err)
  require.Len(t, logs, 1)
  assert.Equal(t, types.SourceValidated, logs[0].Source)
  require.NotNil(t, logs[0].ValidationScore)
  assert.Equal(t, 4, *logs[0].ValidationScore)
  assert.NotEmpty(t, logs[0].Narrative)

  messages, err := flow.GetMessages(ctx, started.SessionID, env.userID)
  require.NoError(t, err)
  assert.Len(t, messages, 14)
}

func TestSubmitStoryRejectsShortStory(t *testing.T) {
  env := newFlowTestEnv(t)
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)

  _, err = flow.SubmitStory(ctx, started.SessionID, env.userID, "   short  ")
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
  assert.Equal(t, types.FlowStorytelling, env.session(t, started.SessionID).FlowState)
}

func TestSubmitStoryRejectsWrongFlowState(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  _, err = flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)

  _, err = flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeInvalidFlowState))
}

func TestSubmitAnswersRejectsWrongFlowState(t *testing.T) {
  env := newFlowTestEnv(t)
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)

  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID,
    []SubmittedAnswer{{QuestionID: uuid.New(), UserAnswer: "C"}})
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeInvalidFlowState))
}

func TestSubmitAnswersRequiresDetectedEmotion(t *testing.T) {
  env := newFlowTestEnv(t)
  flow := env.flow()
  ctx := context.Background()

  // A session stuck awaiting answers without a detected emotion on record.
  created, err := env.sessionRepo.Create(ctx, nil, []*types.Session{{
    ID:        uuid.New(),
    UserID:    env.userID,
    Status:    types.SessionActive,
    FlowState: types.FlowValidateEmotion,
    StoryText: testStory,
  }})
  require.NoError(t, err)
  sessionID := created[0].ID

  _, err = flow.SubmitAnswers(ctx, sessionID, env.userID,
    []SubmittedAnswer{{QuestionID: uuid.New(), UserAnswer: "C"}})
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeNoEmotionDetected))
  assert.Equal(t, types.FlowValidateEmotion, env.session(t, sessionID).FlowState)
}

func TestSessionOwnershipScopedToUser(t *testing.T) {
  env := newFlowTestEnv(t)
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)

  otherUser := env.createUser(t, "someone-else@example.com")
  _, err = flow.SubmitStory(ctx, started.SessionID, otherUser, testStory)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeSessionNotFound))

  _, err = flow.GetMessages(ctx, started.SessionID, otherUser)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeSessionNotFound))
}

func TestSubmitAnswersRejectsEmptyAndDuplicates(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)

  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID, nil)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

  dup := storyResult.Questions[0].ID
  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID, []SubmittedAnswer{
    {QuestionID: dup, UserAnswer: "C"},
    {QuestionID: dup, UserAnswer: "A"},
  })
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeDuplicateAnswer))
  assert.Equal(t, types.FlowValidateEmotion, env.session(t, started.SessionID).FlowState)
}

func TestSubmitAnswersRejectsUnknownQuestion(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  _, err = flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)

  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID,
    []SubmittedAnswer{{QuestionID: uuid.New(), UserAnswer: "C"}})
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeQuestionNotFound))
  // Scoring failed before any write, so the step is still pending.
  assert.Equal(t, types.FlowValidateEmotion, env.session(t, started.SessionID).FlowState)
}

func TestDetectFailureLeavesStoryStepRetryable(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flaky := &flakyAIClient{AIClient: NewMockAIClient(env.log), failDetect: 1}
  flow := env.flowWith(flaky)
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)

  _, err = flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeAIUnavailable))

  // Nothing was written: no story, no new messages, state unchanged.
  session := env.session(t, started.SessionID)
  assert.Equal(t, types.FlowStorytelling, session.FlowState)
  assert.Empty(t, session.StoryText)
  assert.EqualValues(t, 1, env.messageCount(t, started.SessionID))

  // The same call succeeds once the gateway recovers.
  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)
  assert.Equal(t, types.FlowValidateEmotion, storyResult.FlowState)
}

func TestNarrativeFailureLeavesAnswersStepRetryable(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flaky := &flakyAIClient{AIClient: NewMockAIClient(env.log), failNarrative: 1}
  flow := env.flowWith(flaky)
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)
  countBefore := env.messageCount(t, started.SessionID)

  answers := answersFromViews(storyResult.Questions, "C", "C", "C", "C", "C")
  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID, answers)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeAIUnavailable))

  // All-or-nothing: no answers saved, no messages added, state unchanged.
  saved, err := env.answerRepo.GetBySessionID(ctx, nil, started.SessionID)
  require.NoError(t, err)
  assert.Empty(t, saved)
  assert.Equal(t, types.FlowValidateEmotion, env.session(t, started.SessionID).FlowState)
  assert.Equal(t, countBefore, env.messageCount(t, started.SessionID))

  // Resubmitting the identical answers completes the session.
  answersResult, err := flow.SubmitAnswers(ctx, started.SessionID, env.userID, answers)
  require.NoError(t, err)
  assert.Equal(t, types.FlowCompleted, answersResult.FlowState)
  assert.True(t, answersResult.Validation.Passed)
}

func TestFailedValidationStillRecordsDetectedEmotion(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)

  answersResult, err := flow.SubmitAnswers(ctx, started.SessionID, env.userID,
    answersFromViews(storyResult.Questions, "A", "A", "A", "A", "A"))
  require.NoError(t, err)
  assert.False(t, answersResult.Validation.Passed)
  assert.Equal(t, 0, answersResult.Validation.Correct)

  // Validation failed, but the session still completes and keeps the
  // detected emotion as final.
  session := env.session(t, started.SessionID)
  assert.Equal(t, types.FlowCompleted, session.FlowState)
  assert.Equal(t, types.SessionCompleted, session.Status)
  assert.Equal(t, "Sad", session.FinalPrimary)
  assert.Equal(t, "Lonely", session.FinalSecondary)
  assert.Equal(t, "Isolated", session.FinalTertiary)
}

func TestSubmitStoryWithoutQuestionsStillAdvances(t *testing.T) {
  // No question set seeded for the detected path: the flow proceeds with
  // zero questions instead of failing.
  env := newFlowTestEnv(t)
  flow := env.flow()
  ctx := context.Background()

  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)

  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)
  assert.Equal(t, types.FlowValidateEmotion, storyResult.FlowState)
  assert.Empty(t, storyResult.Questions)
  assert.Equal(t, 0, storyResult.TotalQuestions)
}
