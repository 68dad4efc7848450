package services

import (
  "net/http"
  "strings"

  "github.com/google/uuid"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

// passThreshold is the fixed number of correct answers that confirms the
// detected emotion. The question sets are designed as exactly 5 questions, so
// 4-5 correct confirms.
const passThreshold = 4

type SubmittedAnswer struct {
  QuestionID uuid.UUID `json:"questionId" binding:"required"`
  UserAnswer string    `json:"userAnswer" binding:"required"`
}

type ScoredAnswer struct {
  Question   *types.ReflectionQuestion
  UserAnswer string
  IsCorrect  bool
}

type ScoreResult struct {
  Total   int           `json:"total"`
  Correct int           `json:"correct"`
  Score   float64       `json:"score"`
  Passed  bool          `json:"passed"`
  Answers []ScoredAnswer `json:"-"`
}

// ScoreAnswers grades submissions against the question set. It is a pure
// function over its inputs: deterministic and safe to re-run for auditing.
// An answer referencing a question outside the set fails the whole call.
func ScoreAnswers(questions []*types.ReflectionQuestion, submissions []SubmittedAnswer) (*ScoreResult, error) {
  byID := make(map[uuid.UUID]*types.ReflectionQuestion, len(questions))
  for _, q := range questions {
    byID[q.ID] = q
  }

  result := &ScoreResult{}
  for _, sub := range submissions {
    question, ok := byID[sub.QuestionID]
    if !ok {
      return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeQuestionNotFound, "question %s is not part of this question set", sub.QuestionID)
    }
    letter := strings.ToUpper(strings.TrimSpace(sub.UserAnswer))
    if len(letter) != 1 || letter < "A" || letter > "D" {
      return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "answer for question %d must be one of A, B, C, D", question.QuestionIndex)
    }
    correct := letter == strings.ToUpper(question.ExpectedAnswer)
    result.Answers = append(result.Answers, ScoredAnswer{
      Question:   question,
      UserAnswer: letter,
      IsCorrect:  correct,
    })
    result.Total++
    if correct {
      result.Correct++
    }
  }

  if result.Total > 0 {
    result.Score = float64(result.Correct) / float64(result.Total) * 100
  }
  result.Passed = result.Correct >= passThreshold
  return result, nil
}
