package services

import (
  "context"
  "net/http"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
)

// mockAIClient returns canned responses so the whole conversation flow can run
// without the AI service. Same contract, same failure rules for empty input.
type mockAIClient struct {
  log *logger.Logger
}

func NewMockAIClient(log *logger.Logger) AIClient {
  serviceLog := log.With("service", "MockAIClient")
  return &mockAIClient{log: serviceLog}
}

func (c *mockAIClient) Mode() string { return "mock" }

func (c *mockAIClient) DetectEmotion(ctx context.Context, req DetectEmotionRequest) (*DetectEmotionResult, error) {
  if req.StoryText == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "story text must not be empty")
  }
  c.log.Debug("Mock emotion detection", "history_entries", len(req.History))
  return &DetectEmotionResult{
    Primary:    "Sad",
    Secondary:  "Lonely",
    Tertiary:   "Isolated",
    Confidence: 0.85,
    Reasoning: "[MOCK] The story expresses a sense of loneliness and of being " +
      "cut off from the people around you.",
    StorySummary: "[MOCK] Feeling lonely and disconnected from others.",
  }, nil
}

func (c *mockAIClient) GenerateNarrative(ctx context.Context, req GenerateNarrativeRequest) (*GenerateNarrativeResult, error) {
  if req.StoryText == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "story text must not be empty")
  }
  c.log.Debug("Mock narrative generation", "emotion_path", req.EmotionPath, "score", req.ValidationScore)
  return &GenerateNarrativeResult{
    Narrative: "[MOCK] What you are feeling is completely valid. Loneliness is " +
      "something most of us experience, especially when we feel disconnected " +
      "from the people around us. It does not define who you are. You showed " +
      "courage by putting your feelings into words, and that is a meaningful " +
      "first step. Consider reaching out to someone you trust; even a short " +
      "message can open the door to a deeper connection.",
    JourneyNote: "[MOCK] Emotion pattern suggests possible recurring " +
      "loneliness. Exploring the user's support system is recommended.",
  }, nil
}

func (c *mockAIClient) HealthCheck(ctx context.Context) (*AIHealth, error) {
  return &AIHealth{Status: "mock", Message: "AI service is mocked"}, nil
}
