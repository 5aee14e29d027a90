// Package scoring grades quiz submissions. Comparison against the correct
// answer is exact: case-sensitive and whitespace-sensitive, no normalization.
package scoring

import (
	"errors"

	"github.com/abhisek/gyansetu/internal/portal"
)

// ErrNoQuestions is returned when a quiz has no questions. A quiz with zero
// total marks has no defined percentage, so it is rejected rather than
// graded.
var ErrNoQuestions = errors.New("quiz has no questions")

// Result is the outcome of grading one submission.
type Result struct {
	Score      int
	TotalMarks int
	Percentage float64
}

// Grade scores answers against questions. Each question contributes its mark
// when the stored answer equals the correct answer exactly; unanswered
// questions contribute nothing. Percentage is 100*score/totalMarks and lies
// in [0, 100].
func Grade(questions []portal.Question, answers portal.AnswerSheet) (Result, error) {
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}

	var res Result
	for _, q := range questions {
		res.TotalMarks += q.Marks
		a, ok := answers[q.ID]
		if ok && a.Value() == q.CorrectAnswer {
			res.Score += q.Marks
		}
	}
	if res.TotalMarks == 0 {
		// Questions exist but carry no marks; grade as 0% rather than
		// divide by zero.
		return res, nil
	}
	res.Percentage = 100 * float64(res.Score) / float64(res.TotalMarks)
	return res, nil
}
