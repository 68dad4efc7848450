package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/yungbote/mindjourney-backend/internal/db"
  "github.com/yungbote/mindjourney-backend/internal/handlers"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/middleware"
  "github.com/yungbote/mindjourney-backend/internal/observability"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/server"
  "github.com/yungbote/mindjourney-backend/internal/services"
  "github.com/yungbote/mindjourney-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "mindjourney-backend",
    Environment: logMode,
    Version:     os.Getenv("APP_VERSION"),
  })
  if otelShutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      if err := otelShutdown(ctx); err != nil {
        log.Warn("otel shutdown failed", "error", err)
      }
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  seedDB := utils.GetEnvAsBool("SEED_DB", true, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()
  if seedDB {
    if err := db.NewSeeder(thePG, log).SeedAll(context.Background()); err != nil {
      log.Warn("Database seeding failed", "error", err)
    }
  }

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  sessionRepo := repos.NewSessionRepo(thePG, log)
  emotionLogRepo := repos.NewEmotionLogRepo(thePG, log)
  questionRepo := repos.NewReflectionQuestionRepo(thePG, log)
  answerRepo := repos.NewQuestionAnswerRepo(thePG, log)
  messageRepo := repos.NewChatMessageRepo(thePG, log)
  wheelRepo := repos.NewEmotionWheelRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  aiClient := services.NewAIClientFromEnv(log)
  log.Info("AI client ready", "mode", aiClient.Mode())
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  sessionService := services.NewSessionService(thePG, log, sessionRepo)
  emotionService := services.NewEmotionService(thePG, log, wheelRepo, questionRepo, emotionLogRepo)
  chatFlowService := services.NewChatFlowService(
    thePG,
    log,
    sessionService,
    sessionRepo,
    questionRepo,
    answerRepo,
    messageRepo,
    emotionLogRepo,
    emotionService,
    aiClient,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  healthHandler := handlers.NewHealthHandler(aiClient)
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  chatHandler := handlers.NewChatHandler(chatFlowService)
  sessionHandler := handlers.NewSessionHandler(sessionService)
  emotionHandler := handlers.NewEmotionHandler(emotionService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    HealthHandler:  healthHandler,
    AuthHandler:    authHandler,
    AuthMiddleware: authMiddleware,
    UserHandler:    userHandler,
    ChatHandler:    chatHandler,
    SessionHandler: sessionHandler,
    EmotionHandler: emotionHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
