package apierr

import (
  "errors"
  "fmt"
)

// Stable client-facing error codes.
const (
  CodeValidation         = "VALIDATION_ERROR"
  CodeInvalidFlowState   = "INVALID_FLOW_STATE"
  CodeSessionNotFound    = "SESSION_NOT_FOUND"
  CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
  CodeEmotionNotFound    = "EMOTION_NOT_FOUND"
  CodeEmotionLogNotFound = "EMOTION_LOG_NOT_FOUND"
  CodeNoEmotionDetected  = "NO_EMOTION_DETECTED"
  CodeDuplicateAnswer    = "DUPLICATE_ANSWER"
  CodeAIUnavailable      = "AI_SERVICE_UNAVAILABLE"
  CodeAIError            = "AI_SERVICE_ERROR"
  CodeUnauthorized       = "UNAUTHORIZED"
)

type Error struct {
  Status int
  Code   string
  Err    error
}

func (e *Error) Error() string {
  if e == nil {
    return ""
  }
  if e.Err != nil {
    return e.Err.Error()
  }
  if e.Code != "" {
    return e.Code
  }
  if e.Status != 0 {
    return fmt.Sprintf("api error (%d)", e.Status)
  }
  return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
  return &Error{Status: status, Code: code, Err: err}
}

func Newf(status int, code string, format string, args ...interface{}) *Error {
  return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

// From extracts an *Error if err carries one.
func From(err error) (*Error, bool) {
  var ae *Error
  if errors.As(err, &ae) {
    return ae, true
  }
  return nil, false
}

func IsCode(err error, code string) bool {
  if ae, ok := From(err); ok {
    return ae.Code == code
  }
  return false
}
