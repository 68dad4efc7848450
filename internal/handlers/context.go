package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/requestdata"
)

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    return uuid.Nil, apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "not authenticated")
  }
  return rd.UserID, nil
}

func sessionIDParam(c *gin.Context) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param("sessionId"))
  if err != nil {
    return uuid.Nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "invalid session id")
  }
  return id, nil
}
