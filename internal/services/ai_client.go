package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "time"

  "go.opentelemetry.io/otel"
  "go.opentelemetry.io/otel/attribute"
  "go.opentelemetry.io/otel/codes"
  "go.opentelemetry.io/otel/trace"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/utils"
)

// AIHistoryEntry is the bounded cross-session context sent with every AI call.
type AIHistoryEntry struct {
  SessionDate  time.Time        `json:"session_date"`
  StorySummary string           `json:"story_summary"`
  Emotion      *AIHistoryEmotion `json:"emotion"`
  JourneyNote  string           `json:"journey_note,omitempty"`
}

type AIHistoryEmotion struct {
  Primary    string   `json:"primary"`
  Secondary  string   `json:"secondary"`
  Tertiary   string   `json:"tertiary"`
  Confidence *float64 `json:"confidence,omitempty"`
}

type DetectEmotionRequest struct {
  StoryText string           `json:"story_text"`
  History   []AIHistoryEntry `json:"history"`
}

type DetectEmotionResult struct {
  Primary      string  `json:"primary"`
  Secondary    string  `json:"secondary"`
  Tertiary     string  `json:"tertiary"`
  Confidence   float64 `json:"confidence"`
  Reasoning    string  `json:"reasoning"`
  StorySummary string  `json:"story_summary"`
}

type GenerateNarrativeRequest struct {
  StoryText       string           `json:"story_text"`
  EmotionPath     string           `json:"emotion_path"`
  ValidationScore float64          `json:"validation_score"`
  History         []AIHistoryEntry `json:"history"`
}

type GenerateNarrativeResult struct {
  Narrative   string `json:"narrative"`
  JourneyNote string `json:"journey_note"`
}

type AIHealth struct {
  Status  string `json:"status"`
  Message string `json:"message,omitempty"`
}

// AIClient abstracts the external emotion-detection / narrative-generation
// service. Implementations: live HTTP and mock, selected once at startup.
// Business logic never branches on the mode.
type AIClient interface {
  DetectEmotion(ctx context.Context, req DetectEmotionRequest) (*DetectEmotionResult, error)
  GenerateNarrative(ctx context.Context, req GenerateNarrativeRequest) (*GenerateNarrativeResult, error)
  HealthCheck(ctx context.Context) (*AIHealth, error)
  Mode() string
}

const (
  detectEmotionTimeout     = 30 * time.Second
  generateNarrativeTimeout = 60 * time.Second
  aiHealthTimeout          = 5 * time.Second
)

type aiClient struct {
  httpClient *http.Client
  log        *logger.Logger
  baseURL    string
  tracer     trace.Tracer
}

// NewAIClientFromEnv picks the mock or live implementation based on
// USE_MOCK_AI (defaults to mock until the AI service is deployed).
func NewAIClientFromEnv(log *logger.Logger) AIClient {
  useMock := utils.GetEnvAsBool("USE_MOCK_AI", true, log)
  if useMock {
    return NewMockAIClient(log)
  }
  baseURL := utils.GetEnv("AI_SERVICE_URL", "http://localhost:8000", log)
  return NewAIClient(log, baseURL)
}

func NewAIClient(log *logger.Logger, baseURL string) AIClient {
  serviceLog := log.With("service", "AIClient")
  return &aiClient{
    // Per-call deadlines come from the request context; the client-level
    // timeout is a backstop above the longest call.
    httpClient: &http.Client{Timeout: generateNarrativeTimeout + 10*time.Second},
    log:        serviceLog,
    baseURL:    baseURL,
    tracer:     otel.Tracer("ai_client"),
  }
}

func (c *aiClient) Mode() string { return "live" }

func (c *aiClient) DetectEmotion(ctx context.Context, req DetectEmotionRequest) (*DetectEmotionResult, error) {
  if req.StoryText == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "story text must not be empty")
  }
  var result DetectEmotionResult
  if err := c.post(ctx, "ai.detect_emotion", "/detect-emotion", detectEmotionTimeout, req, &result); err != nil {
    return nil, err
  }
  return &result, nil
}

func (c *aiClient) GenerateNarrative(ctx context.Context, req GenerateNarrativeRequest) (*GenerateNarrativeResult, error) {
  if req.StoryText == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "story text must not be empty")
  }
  var result GenerateNarrativeResult
  if err := c.post(ctx, "ai.generate_narrative", "/generate-narrative", generateNarrativeTimeout, req, &result); err != nil {
    return nil, err
  }
  return &result, nil
}

func (c *aiClient) HealthCheck(ctx context.Context) (*AIHealth, error) {
  ctx, cancel := context.WithTimeout(ctx, aiHealthTimeout)
  defer cancel()
  httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
  if err != nil {
    return nil, err
  }
  resp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return &AIHealth{Status: "offline", Message: err.Error()}, nil
  }
  defer resp.Body.Close()
  var health AIHealth
  if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
    return &AIHealth{Status: "offline", Message: err.Error()}, nil
  }
  return &health, nil
}

func (c *aiClient) post(ctx context.Context, spanName, path string, timeout time.Duration, payload, out interface{}) (err error) {
  ctx, span := c.tracer.Start(ctx, spanName,
    trace.WithSpanKind(trace.SpanKindClient),
    trace.WithAttributes(
      attribute.String("ai.path", path),
      attribute.String("ai.base_url", c.baseURL),
    ))
  defer func() {
    if err != nil {
      span.RecordError(err)
      span.SetStatus(codes.Error, err.Error())
    }
    span.End()
  }()

  ctx, cancel := context.WithTimeout(ctx, timeout)
  defer cancel()

  body, err := json.Marshal(payload)
  if err != nil {
    return fmt.Errorf("marshal AI request: %w", err)
  }
  httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
  if err != nil {
    return fmt.Errorf("build AI request: %w", err)
  }
  httpReq.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(httpReq)
  if err != nil {
    c.log.Warn("AI service unreachable", "path", path, "error", err)
    return apierr.Newf(http.StatusServiceUnavailable, apierr.CodeAIUnavailable, "failed to reach AI service: %v", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
    var remote struct {
      Detail string `json:"detail"`
    }
    _ = json.Unmarshal(raw, &remote)
    detail := remote.Detail
    if detail == "" {
      detail = resp.Status
    }
    c.log.Warn("AI service returned error", "path", path, "status", resp.StatusCode, "detail", detail)
    return apierr.Newf(http.StatusBadGateway, apierr.CodeAIError, "AI service error: %s", detail)
  }

  if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
    return apierr.Newf(http.StatusBadGateway, apierr.CodeAIError, "malformed AI service response: %v", err)
  }
  return nil
}
