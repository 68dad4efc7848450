package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mindjourney-backend/internal/services"
)

type HealthHandler struct {
  aiClient services.AIClient
}

func NewHealthHandler(aiClient services.AIClient) *HealthHandler {
  return &HealthHandler{aiClient: aiClient}
}

func (hh *HealthHandler) HealthCheck(c *gin.Context) {
  c.String(http.StatusOK, "ok")
}

// AIHealth reports the reachability of the emotion service without failing
// the whole endpoint: a down gateway is a 200 with status "unreachable".
func (hh *HealthHandler) AIHealth(c *gin.Context) {
  health, err := hh.aiClient.HealthCheck(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusOK, gin.H{"mode": hh.aiClient.Mode(), "status": "unreachable", "error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"mode": hh.aiClient.Mode(), "status": health.Status, "message": health.Message})
}
