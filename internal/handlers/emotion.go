package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mindjourney-backend/internal/services"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type EmotionHandler struct {
  emotionService services.EmotionService
}

func NewEmotionHandler(emotionService services.EmotionService) *EmotionHandler {
  return &EmotionHandler{emotionService: emotionService}
}

func (eh *EmotionHandler) GetQuestions(c *gin.Context) {
  emotionKey := c.Param("emotionKey")
  questions, err := eh.emotionService.GetReflectionQuestions(c.Request.Context(), emotionKey)
  if err != nil {
    RespondError(c, err)
    return
  }
  views := make([]types.QuestionView, 0, len(questions))
  for _, q := range questions {
    views = append(views, q.ToQuestionView())
  }
  RespondOK(c, gin.H{"emotion_key": emotionKey, "questions": views, "count": len(views)})
}

func (eh *EmotionHandler) GetPrimaries(c *gin.Context) {
  primaries, err := eh.emotionService.GetPrimaryEmotions(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"primaries": primaries})
}

func (eh *EmotionHandler) GetMetadata(c *gin.Context) {
  primary := c.Param("primary")
  metadata, err := eh.emotionService.GetEmotionMetadata(c.Request.Context(), primary)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, metadata)
}

func (eh *EmotionHandler) ValidatePath(c *gin.Context) {
  var req struct {
    Primary   string `json:"primary"`
    Secondary string `json:"secondary"`
    Tertiary  string `json:"tertiary"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  valid, err := eh.emotionService.ValidateEmotionPath(c.Request.Context(), req.Primary, req.Secondary, req.Tertiary)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"valid": valid})
}

func (eh *EmotionHandler) GetJourney(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
  journey, err := eh.emotionService.GetUserEmotionJourney(c.Request.Context(), userID, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"journey": journey, "count": len(journey)})
}
