package handlers

import (
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mindjourney-backend/internal/services"
)

type SessionHandler struct {
  sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
  return &SessionHandler{sessionService: sessionService}
}

func (sh *SessionHandler) GetSession(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  sessionID, err := sessionIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  session, err := sh.sessionService.GetByIDEager(c.Request.Context(), sessionID, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, session)
}

func (sh *SessionHandler) GetHistory(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
  history, err := sh.sessionService.GetUserHistory(c.Request.Context(), userID, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"history": history, "count": len(history)})
}

func (sh *SessionHandler) GetHistoryForAI(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
  entries, err := sh.sessionService.FormatHistoryForAI(c.Request.Context(), userID, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"history": entries, "count": len(entries)})
}

func (sh *SessionHandler) Abandon(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  sessionID, err := sessionIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  session, err := sh.sessionService.Abandon(c.Request.Context(), sessionID, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"session_id": session.ID, "status": session.Status, "flow_state": session.FlowState})
}
