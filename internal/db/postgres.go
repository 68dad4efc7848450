package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
  "github.com/yungbote/mindjourney-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "mindjourney", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  if err := AutoMigrate(s.db); err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  constraints := []struct {
    table    string
    name     string
    column   string
    refTable string
  }{
    {"user_token", "fk_user_token_user_id", "user_id", "user"},
    {"session", "fk_session_user_id", "user_id", "user"},
    {"emotion_log", "fk_emotion_log_session_id", "session_id", "session"},
    {"question_answer", "fk_question_answer_session_id", "session_id", "session"},
    {"chat_message", "fk_chat_message_session_id", "session_id", "session"},
  }
  for _, c := range constraints {
    stmt := fmt.Sprintf(`
      ALTER TABLE %q
      DROP CONSTRAINT IF EXISTS %q;
      ALTER TABLE %q
      ADD CONSTRAINT %q
      FOREIGN KEY (%q)
      REFERENCES %q("id")
      ON DELETE CASCADE
    `, c.table, c.name, c.table, c.name, c.column, c.refTable)
    if err := s.db.Exec(stmt).Error; err != nil {
      return fmt.Errorf("failed to add %s: %w", c.name, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// AutoMigrate creates all tables. Split out so tests can migrate an
// in-memory database without the Postgres-specific FK wiring.
func AutoMigrate(gdb *gorm.DB) error {
  return gdb.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Session{},
    &types.EmotionLog{},
    &types.ReflectionQuestion{},
    &types.QuestionAnswer{},
    &types.ChatMessage{},
    &types.EmotionWheel{},
  )
}
