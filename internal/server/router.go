package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/yungbote/mindjourney-backend/internal/handlers"
  "github.com/yungbote/mindjourney-backend/internal/middleware"
)

type RouterConfig struct {
  HealthHandler  *handlers.HealthHandler
  AuthHandler    *handlers.AuthHandler
  AuthMiddleware *middleware.AuthMiddleware
  UserHandler    *handlers.UserHandler
  ChatHandler    *handlers.ChatHandler
  SessionHandler *handlers.SessionHandler
  EmotionHandler *handlers.EmotionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Tracing
  router.Use(otelgin.Middleware("mindjourney-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
  router.GET("/healthcheck/ai", cfg.HealthHandler.AIHealth)
  api := router.Group("/api")
  {
    api.POST("/auth/register", cfg.AuthHandler.Register)
    api.POST("/auth/login", cfg.AuthHandler.Login)
    api.POST("/auth/refresh", cfg.AuthMiddleware.RequireRefresh(), cfg.AuthHandler.Refresh)
    // Emotion taxonomy is static reference data, no auth needed
    api.GET("/emotions/primaries", cfg.EmotionHandler.GetPrimaries)
    api.GET("/emotions/:primary", cfg.EmotionHandler.GetMetadata)
    api.POST("/emotions/validate", cfg.EmotionHandler.ValidatePath)
  }

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/auth/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user/me", cfg.UserHandler.GetMe)
  // Chat flow
  protected.POST("/chat/start", cfg.ChatHandler.StartChat)
  protected.POST("/chat/:sessionId/story", cfg.ChatHandler.SubmitStory)
  protected.POST("/chat/:sessionId/answers", cfg.ChatHandler.SubmitAnswers)
  protected.GET("/chat/:sessionId/messages", cfg.ChatHandler.GetMessages)
  // Sessions
  protected.GET("/sessions/history", cfg.SessionHandler.GetHistory)
  protected.GET("/sessions/history/ai", cfg.SessionHandler.GetHistoryForAI)
  protected.GET("/sessions/:sessionId", cfg.SessionHandler.GetSession)
  protected.POST("/sessions/:sessionId/abandon", cfg.SessionHandler.Abandon)
  // Reflection questions & journey
  protected.GET("/questions/:emotionKey", cfg.EmotionHandler.GetQuestions)
  protected.GET("/journey", cfg.EmotionHandler.GetJourney)

  return router
}
