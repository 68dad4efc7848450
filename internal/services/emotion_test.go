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

func (e *flowTestEnv) seedWheelPath(t *testing.T, primary, secondary, tertiary string) {
  t.Helper()
  entry := &types.EmotionWheel{
    ID:               uuid.New(),
    PrimaryEmotion:   primary,
    SecondaryEmotion: secondary,
    TertiaryEmotion:  tertiary,
  }
  require.NoError(t, e.gdb.Create(entry).Error)
}

func TestValidateEmotionPath(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedWheelPath(t, "Sad", "Lonely", "Isolated")
  ctx := context.Background()

  valid, err := env.emotionService.ValidateEmotionPath(ctx, "Sad", "Lonely", "Isolated")
  require.NoError(t, err)
  assert.True(t, valid)

  valid, err = env.emotionService.ValidateEmotionPath(ctx, "Sad", "Lonely", "Abandoned")
  require.NoError(t, err)
  assert.False(t, valid)
}

func TestGetEmotionMetadataGroupsBySecondary(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedWheelPath(t, "Sad", "Lonely", "Isolated")
  env.seedWheelPath(t, "Sad", "Lonely", "Abandoned")
  env.seedWheelPath(t, "Sad", "Guilty", "Ashamed")
  env.seedWheelPath(t, "Happy", "Proud", "Confident")
  ctx := context.Background()

  metadata, err := env.emotionService.GetEmotionMetadata(ctx, "Sad")
  require.NoError(t, err)
  assert.Equal(t, "Sad", metadata.Primary)
  require.Len(t, metadata.Secondaries, 2)

  bySecondary := make(map[string][]string)
  for _, group := range metadata.Secondaries {
    bySecondary[group.Secondary] = group.Tertiaries
  }
  assert.ElementsMatch(t, []string{"Isolated", "Abandoned"}, bySecondary["Lonely"])
  assert.ElementsMatch(t, []string{"Ashamed"}, bySecondary["Guilty"])

  _, err = env.emotionService.GetEmotionMetadata(ctx, "Bogus")
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeEmotionNotFound))
}

func TestGetPrimaryEmotions(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedWheelPath(t, "Sad", "Lonely", "Isolated")
  env.seedWheelPath(t, "Sad", "Lonely", "Abandoned")
  env.seedWheelPath(t, "Happy", "Proud", "Confident")

  primaries, err := env.emotionService.GetPrimaryEmotions(context.Background())
  require.NoError(t, err)
  assert.ElementsMatch(t, []string{"Sad", "Happy"}, primaries)
}

func TestGetReflectionQuestions(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  ctx := context.Background()

  questions, err := env.emotionService.GetReflectionQuestions(ctx, "Sad.Lonely.Isolated")
  require.NoError(t, err)
  assert.Len(t, questions, 5)
  // Ordered by question index
  for i, q := range questions {
    assert.Equal(t, i+1, q.QuestionIndex)
  }

  _, err = env.emotionService.GetReflectionQuestions(ctx, "Happy.Proud.Confident")
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeQuestionNotFound))

  _, err = env.emotionService.GetReflectionQuestions(ctx, "  ")
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestGetUserEmotionJourney(t *testing.T) {
  env := newFlowTestEnv(t)
  env.seedQuestions(t, "Sad.Lonely.Isolated")
  ctx := context.Background()

  completeSession(t, env)

  journey, err := env.emotionService.GetUserEmotionJourney(ctx, env.userID, 0)
  require.NoError(t, err)
  require.Len(t, journey, 1)
  assert.Equal(t, "Sad", journey[0].Primary)
  assert.Equal(t, "Isolated", journey[0].Tertiary)
  assert.Equal(t, string(types.SourceValidated), journey[0].Source)
  assert.True(t, journey[0].HasNarrative)

  // Another user sees nothing.
  other := env.createUser(t, "journey-other@example.com")
  journey, err = env.emotionService.GetUserEmotionJourney(ctx, other, 0)
  require.NoError(t, err)
  assert.Empty(t, journey)
}
