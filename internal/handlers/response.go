package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Success bool     `json:"success"`
  Error   APIError `json:"error"`
}

type OKEnvelope struct {
  Success bool   `json:"success"`
  Message string `json:"message,omitempty"`
  Data    any    `json:"data,omitempty"`
}

// RespondError maps service errors to the wire envelope. Errors that carry
// an apierr.Error keep their status and stable code; anything else is a 500.
func RespondError(c *gin.Context, err error) {
  status := http.StatusInternalServerError
  code := ""
  msg := "internal server error"
  if ae, ok := apierr.From(err); ok {
    status = ae.Status
    code = ae.Code
    msg = ae.Error()
  } else if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Success: false,
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, OKEnvelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, OKEnvelope{Success: true, Data: payload})
}

func RespondMessage(c *gin.Context, message string) {
  c.JSON(http.StatusOK, OKEnvelope{Success: true, Message: message})
}
