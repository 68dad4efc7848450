package services

import (
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

func scoringQuestions(n int) []*types.ReflectionQuestion {
  questions := make([]*types.ReflectionQuestion, 0, n)
  for i := 1; i <= n; i++ {
    questions = append(questions, &types.ReflectionQuestion{
      ID:             uuid.New(),
      EmotionKey:     "Sad.Lonely.Isolated",
      QuestionIndex:  i,
      QuestionText:   "question",
      ExpectedAnswer: "C",
    })
  }
  return questions
}

func answersFor(questions []*types.ReflectionQuestion, letters ...string) []SubmittedAnswer {
  subs := make([]SubmittedAnswer, 0, len(letters))
  for i, letter := range letters {
    subs = append(subs, SubmittedAnswer{QuestionID: questions[i].ID, UserAnswer: letter})
  }
  return subs
}

func TestScoreAnswersPassesAtFourOfFive(t *testing.T) {
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, answersFor(questions, "C", "C", "C", "C", "A"))
  require.NoError(t, err)
  assert.Equal(t, 5, result.Total)
  assert.Equal(t, 4, result.Correct)
  assert.Equal(t, 80.0, result.Score)
  assert.True(t, result.Passed)
}

func TestScoreAnswersFailsAtThreeOfFive(t *testing.T) {
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, answersFor(questions, "C", "C", "C", "A", "B"))
  require.NoError(t, err)
  assert.Equal(t, 3, result.Correct)
  assert.Equal(t, 60.0, result.Score)
  assert.False(t, result.Passed)
}

func TestScoreAnswersAllCorrect(t *testing.T) {
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, answersFor(questions, "C", "C", "C", "C", "C"))
  require.NoError(t, err)
  assert.Equal(t, 100.0, result.Score)
  assert.True(t, result.Passed)
}

func TestScoreAnswersNormalizesCaseAndWhitespace(t *testing.T) {
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, answersFor(questions, " c ", "c", "C", "C", "C"))
  require.NoError(t, err)
  assert.Equal(t, 5, result.Correct)
  for _, scored := range result.Answers {
    assert.Equal(t, "C", scored.UserAnswer)
  }
}

func TestScoreAnswersRejectsInvalidLetter(t *testing.T) {
  questions := scoringQuestions(5)
  _, err := ScoreAnswers(questions, answersFor(questions, "E"))
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

  _, err = ScoreAnswers(questions, answersFor(questions, "CC"))
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestScoreAnswersRejectsUnknownQuestion(t *testing.T) {
  questions := scoringQuestions(5)
  subs := []SubmittedAnswer{{QuestionID: uuid.New(), UserAnswer: "C"}}
  _, err := ScoreAnswers(questions, subs)
  require.Error(t, err)
  assert.True(t, apierr.IsCode(err, apierr.CodeQuestionNotFound))
}

func TestScoreAnswersEmptySubmissions(t *testing.T) {
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, nil)
  require.NoError(t, err)
  assert.Equal(t, 0, result.Total)
  assert.Equal(t, 0.0, result.Score)
  assert.False(t, result.Passed)
}

func TestScoreAnswersPartialSubmission(t *testing.T) {
  // Fewer answers than questions still scores, but cannot pass with under
  // four correct.
  questions := scoringQuestions(5)
  result, err := ScoreAnswers(questions, answersFor(questions, "C", "C"))
  require.NoError(t, err)
  assert.Equal(t, 2, result.Total)
  assert.Equal(t, 100.0, result.Score)
  assert.False(t, result.Passed)
}
