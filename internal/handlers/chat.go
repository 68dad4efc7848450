package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mindjourney-backend/internal/services"
)

type ChatHandler struct {
  chatFlowService services.ChatFlowService
}

func NewChatHandler(chatFlowService services.ChatFlowService) *ChatHandler {
  return &ChatHandler{chatFlowService: chatFlowService}
}

func (ch *ChatHandler) StartChat(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  result, err := ch.chatFlowService.StartChat(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, result)
}

func (ch *ChatHandler) SubmitStory(c *gin.Context) {
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
  var req struct {
    StoryText string `json:"storyText"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  result, err := ch.chatFlowService.SubmitStory(c.Request.Context(), sessionID, userID, req.StoryText)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

func (ch *ChatHandler) SubmitAnswers(c *gin.Context) {
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
  var req struct {
    Answers []services.SubmittedAnswer `json:"answers"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  result, err := ch.chatFlowService.SubmitAnswers(c.Request.Context(), sessionID, userID, req.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

func (ch *ChatHandler) GetMessages(c *gin.Context) {
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
  messages, err := ch.chatFlowService.GetMessages(c.Request.Context(), sessionID, userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"session_id": sessionID, "messages": messages, "count": len(messages)})
}
