package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

// completeSession drives one full conversation so history tests have a
// finished session to aggregate.
func completeSession(t *testing.T, env *flowTestEnv) uuid.UUID {
  t.Helper()
  flow := env.flow()
  ctx := context.Background()
  started, err := flow.StartChat(ctx, env.userID)
  require.NoError(t, err)
  storyResult, err := flow.SubmitStory(ctx, started.SessionID, env.userID, testStory)
  require.NoError(t, err)
  _, err = flow.SubmitAnswers(ctx, started.SessionID, env.userID,
    answersFromViews(storyResult.Questions, "C", "C", "C", "C", "C"))
  require.NoError(t, err)
  return started.SessionID
}

func TestUserHistoryListsOnlyCompletedSessions(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  ctx := context.Background()

  completedID := completeSession(t, env)

  // A second, still-active session must not appear in history.
  _, err := env.flow().StartChat(ctx, env.userID)
  require.NoError(t, err)

  history, err := env.sessionService.GetUserHistory(ctx, env.userID, 0)
  require.NoError(t, err)
  require.Len(t, history, 1)
  assert.Equal(t, completedID, history[0].ID)
  assert.Equal(t, types.SessionCompleted, history[0].Status)
  require.NotNil(t, history[0].Emotion)
  assert.Equal(t, "Sad", history[0].Emotion.Primary)
}

func TestFormatHistoryForAICarriesJourneyNotes(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  ctx := context.Background()

  completeSession(t, env)

  entries, err := env.sessionService.FormatHistoryForAI(ctx, env.userID, 0)
  require.NoError(t, err)
  require.Len(t, entries, 1)
  assert.NotEmpty(t, entries[0].StorySummary)
  assert.NotEqual(t, "(no summary)", entries[0].StorySummary)
  require.NotNil(t, entries[0].Emotion)
  assert.Equal(t, "Isolated", entries[0].Emotion.Tertiary)
  assert.NotEmpty(t, entries[0].JourneyNote)
}

func TestFormatHistoryForAIEmptyForNewUser(t *testing.T) {
  env := newFlowTestEnv(t)
  entries, err := env.sessionService.FormatHistoryForAI(context.Background(), env.userID, 0)
  require.NoError(t, err)
  assert.Empty(t, entries)
}

func TestGetByIDUnknownSessionIsNotFound(t *testing.T) {
  env := newFlowTestEnv(t)
  _, err := env.sessionService.GetByID(context.Background(), uuid.New(), env.userID)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeSessionNotFound))
}

func TestAbandonSession(t *testing.T) {
  env := newFlowTestEnv(t)
  ctx := context.Background()

  started, err := env.flow().StartChat(ctx, env.userID)
  require.NoError(t, err)

  abandoned, err := env.sessionService.Abandon(ctx, started.SessionID, env.userID)
  require.NoError(t, err)
  assert.Equal(t, types.SessionAbandoned, abandoned.Status)
  require.NotNil(t, abandoned.EndedAt)

  stored := env.session(t, started.SessionID)
  assert.Equal(t, types.SessionAbandoned, stored.Status)

  // Abandoning is scoped by owner like every other session read.
  other := env.createUser(t, "abandon-other@example.com")
  _, err = env.sessionService.Abandon(ctx, started.SessionID, other)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeSessionNotFound))
}
