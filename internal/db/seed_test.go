package db

import (
  "context"
  "fmt"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
  require.NoError(t, err)
  require.NoError(t, AutoMigrate(gdb))
  return gdb
}

func TestSeedAllPopulatesReferenceTables(t *testing.T) {
  gdb := newSeedTestDB(t)
  seeder := NewSeeder(gdb, logger.NewNop())
  require.NoError(t, seeder.SeedAll(context.Background()))

  var wheelCount int64
  require.NoError(t, gdb.Model(&types.EmotionWheel{}).Count(&wheelCount).Error)
  assert.Greater(t, wheelCount, int64(0))

  // Every seeded triple is unique and the known mock path exists.
  var sadLonely int64
  require.NoError(t, gdb.Model(&types.EmotionWheel{}).
    Where("primary_emotion = ? AND secondary_emotion = ? AND tertiary_emotion = ?", "Sad", "Lonely", "Isolated").
    Count(&sadLonely).Error)
  assert.EqualValues(t, 1, sadLonely)

  var questionCount int64
  require.NoError(t, gdb.Model(&types.ReflectionQuestion{}).
    Where("emotion_key = ?", "Sad.Lonely.Isolated").
    Count(&questionCount).Error)
  assert.EqualValues(t, 5, questionCount)

  // Expected answers never leave the A-D range.
  var badAnswers int64
  require.NoError(t, gdb.Model(&types.ReflectionQuestion{}).
    Where("expected_answer NOT IN ?", []string{"A", "B", "C", "D"}).
    Count(&badAnswers).Error)
  assert.EqualValues(t, 0, badAnswers)
}

func TestSeedAllIsIdempotent(t *testing.T) {
  gdb := newSeedTestDB(t)
  seeder := NewSeeder(gdb, logger.NewNop())
  ctx := context.Background()
  require.NoError(t, seeder.SeedAll(ctx))

  var wheelBefore, questionsBefore int64
  require.NoError(t, gdb.Model(&types.EmotionWheel{}).Count(&wheelBefore).Error)
  require.NoError(t, gdb.Model(&types.ReflectionQuestion{}).Count(&questionsBefore).Error)

  require.NoError(t, seeder.SeedAll(ctx))

  var wheelAfter, questionsAfter int64
  require.NoError(t, gdb.Model(&types.EmotionWheel{}).Count(&wheelAfter).Error)
  require.NoError(t, gdb.Model(&types.ReflectionQuestion{}).Count(&questionsAfter).Error)
  assert.Equal(t, wheelBefore, wheelAfter)
  assert.Equal(t, questionsBefore, questionsAfter)
}
