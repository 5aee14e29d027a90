package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyansetu/internal/portal"
)

func twoQuestionQuiz() []portal.Question {
	return []portal.Question{
		{
			ID:            "q1",
			Kind:          portal.MultipleChoice,
			Options:       []string{"3", "4", "5"},
			CorrectAnswer: "4",
			Marks:         5,
			Position:      1,
		},
		{
			ID:            "q2",
			Kind:          portal.ShortAnswer,
			CorrectAnswer: "photosynthesis",
			Marks:         10,
			Position:      2,
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	questions := twoQuestionQuiz()
	a1, err := portal.OptionAnswer(questions[0], 1)
	require.NoError(t, err)

	sheet := portal.AnswerSheet{
		"q1": a1,
		"q2": portal.TextAnswer("photosynthesis"),
	}

	res, err := Grade(questions, sheet)
	require.NoError(t, err)
	assert.Equal(t, 15, res.Score)
	assert.Equal(t, 15, res.TotalMarks)
	assert.InDelta(t, 100.0, res.Percentage, 0.0001)
}

func TestGradePartiallyCorrect(t *testing.T) {
	questions := twoQuestionQuiz()
	a1, err := portal.OptionAnswer(questions[0], 1)
	require.NoError(t, err)

	sheet := portal.AnswerSheet{
		"q1": a1,
		"q2": portal.TextAnswer("respiration"),
	}

	res, err := Grade(questions, sheet)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 15, res.TotalMarks)
	assert.InDelta(t, 33.333, res.Percentage, 0.01)
}

func TestGradeUnansweredScoreNothing(t *testing.T) {
	res, err := Grade(twoQuestionQuiz(), portal.AnswerSheet{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 15, res.TotalMarks)
	assert.Equal(t, 0.0, res.Percentage)
}

func TestGradeComparisonIsExact(t *testing.T) {
	questions := twoQuestionQuiz()

	tests := []struct {
		name   string
		answer string
	}{
		{"different case", "Photosynthesis"},
		{"trailing space", "photosynthesis "},
		{"leading space", " photosynthesis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := portal.AnswerSheet{"q2": portal.TextAnswer(tt.answer)}
			res, err := Grade(questions, sheet)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Score)
		})
	}
}

func TestGradeRejectsEmptyQuiz(t *testing.T) {
	_, err := Grade(nil, portal.AnswerSheet{})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestGradeZeroMarkQuestions(t *testing.T) {
	questions := []portal.Question{
		{ID: "q1", Kind: portal.ShortAnswer, CorrectAnswer: "x", Marks: 0},
	}
	res, err := Grade(questions, portal.AnswerSheet{"q1": portal.TextAnswer("x")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalMarks)
	assert.Equal(t, 0.0, res.Percentage)
}

func TestGradePercentageBounds(t *testing.T) {
	questions := twoQuestionQuiz()
	sheets := []portal.AnswerSheet{
		{},
		{"q2": portal.TextAnswer("photosynthesis")},
		{"q2": portal.TextAnswer("wrong")},
	}
	for _, sheet := range sheets {
		res, err := Grade(questions, sheet)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Percentage, 0.0)
		assert.LessOrEqual(t, res.Percentage, 100.0)
	}
}
