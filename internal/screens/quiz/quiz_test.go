package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyansetu/internal/portal"
)

// fakeRepo implements portal.Repo with canned quiz data.
type fakeRepo struct {
	portal.Repo

	quiz      portal.Quiz
	questions []portal.Question
	loadErr   error
	submitErr error

	submitted []portal.Assessment
}

func (f *fakeRepo) GetQuiz(_ context.Context, id string) (portal.Quiz, error) {
	if f.loadErr != nil {
		return portal.Quiz{}, f.loadErr
	}
	return f.quiz, nil
}

func (f *fakeRepo) ListQuestions(_ context.Context, _ string) ([]portal.Question, error) {
	return f.questions, nil
}

func (f *fakeRepo) SubmitAssessment(_ context.Context, a portal.Assessment) (portal.Assessment, error) {
	if f.submitErr != nil {
		return portal.Assessment{}, f.submitErr
	}
	f.submitted = append(f.submitted, a)
	return a, nil
}

func twoQuestionRepo() *fakeRepo {
	return &fakeRepo{
		quiz: portal.Quiz{ID: "qz1", LessonID: "l1", Title: "Plants"},
		questions: []portal.Question{
			{
				ID:            "q1",
				QuizID:        "qz1",
				Prompt:        "What is 2 + 2?",
				Kind:          portal.MultipleChoice,
				Options:       []string{"3", "4", "5"},
				CorrectAnswer: "4",
				Marks:         5,
				Position:      1,
			},
			{
				ID:            "q2",
				QuizID:        "qz1",
				Prompt:        "How do plants make food?",
				Kind:          portal.ShortAnswer,
				CorrectAnswer: "photosynthesis",
				Marks:         10,
				Position:      2,
			},
		},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func tabKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyTab}
}

func shiftTabKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
}

func ctrlS() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
}

func startedQuiz(t *testing.T, repo *fakeRepo) *QuizScreen {
	t.Helper()
	s := New(repo, portal.Identity{ID: "stu1", Role: portal.RoleStudent}, "qz1", "l1")
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

func TestLoadEntersAnswering(t *testing.T) {
	s := startedQuiz(t, twoQuestionRepo())
	assert.Equal(t, phaseAnswering, s.phase)
	assert.Equal(t, 0, s.index)
	assert.Contains(t, s.View(90, 30), "Question 1 of 2")
}

func TestLoadFailure(t *testing.T) {
	repo := twoQuestionRepo()
	repo.loadErr = errors.New("network down")
	s := startedQuiz(t, repo)
	assert.Equal(t, phaseFailed, s.phase)
	assert.Contains(t, s.View(90, 30), "could not be loaded")
}

func TestEmptyQuizRejected(t *testing.T) {
	repo := twoQuestionRepo()
	repo.questions = nil
	s := startedQuiz(t, repo)
	assert.Equal(t, phaseRejected, s.phase)
	assert.Contains(t, s.View(90, 30), "no questions yet")

	// Keys do nothing once rejected.
	s.Update(ctrlS())
	assert.Equal(t, phaseRejected, s.phase)
	assert.Empty(t, repo.submitted)
}

func TestTraversalClamped(t *testing.T) {
	s := startedQuiz(t, twoQuestionRepo())

	s.Update(shiftTabKey())
	assert.Equal(t, 0, s.index)

	s.Update(tabKey())
	assert.Equal(t, 1, s.index)
	s.Update(tabKey())
	assert.Equal(t, 1, s.index)
}

func TestAnswersSurviveNavigation(t *testing.T) {
	s := startedQuiz(t, twoQuestionRepo())

	// Choose "4" on the multiple-choice question.
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, 1, s.choice.Chosen)

	// Type on the short-answer question.
	s.Update(tabKey())
	for _, r := range "photosynthesis" {
		s.Update(keyPress(r))
	}
	assert.Equal(t, "photosynthesis", s.input.Value())

	// Revisiting each question restores what was entered.
	s.Update(shiftTabKey())
	assert.Equal(t, 1, s.choice.Chosen)
	s.Update(tabKey())
	assert.Equal(t, "photosynthesis", s.input.Value())
}

func TestSubmitGradesAndPersists(t *testing.T) {
	repo := twoQuestionRepo()
	s := startedQuiz(t, repo)

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	s.Update(tabKey())
	for _, r := range "photosynthesis" {
		s.Update(keyPress(r))
	}

	_, cmd := s.Update(ctrlS())
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, phaseSubmitted, s.phase)
	assert.Equal(t, 15, s.result.Score)
	assert.Equal(t, 15, s.result.TotalMarks)
	assert.InDelta(t, 100.0, s.result.Percentage, 0.001)

	require.Len(t, repo.submitted, 1)
	a := repo.submitted[0]
	assert.Equal(t, "stu1", a.StudentID)
	assert.Equal(t, "qz1", a.QuizID)
	assert.Equal(t, "l1", a.LessonID)
	assert.Equal(t, 15, a.Score)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, map[string]string{"q1": "4", "q2": "photosynthesis"}, a.Answers)

	view := s.View(90, 30)
	assert.Contains(t, view, "Quiz Completed!")
	assert.Contains(t, view, "100.0%")
}

func TestSubmitPartialCredit(t *testing.T) {
	repo := twoQuestionRepo()
	s := startedQuiz(t, repo)

	// Correct choice, wrong text.
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	s.Update(tabKey())
	for _, r := range "respiration" {
		s.Update(keyPress(r))
	}

	_, cmd := s.Update(ctrlS())
	s.Update(cmd())

	assert.Equal(t, 5, s.result.Score)
	assert.InDelta(t, 100.0*5/15, s.result.Percentage, 0.001)
}

func TestSubmitUnansweredScoresZero(t *testing.T) {
	repo := twoQuestionRepo()
	s := startedQuiz(t, repo)

	_, cmd := s.Update(ctrlS())
	s.Update(cmd())

	assert.Equal(t, phaseSubmitted, s.phase)
	assert.Equal(t, 0, s.result.Score)
	require.Len(t, repo.submitted, 1)
	assert.Empty(t, repo.submitted[0].Answers)
}

func TestSubmitPersistFailureStillShowsResult(t *testing.T) {
	repo := twoQuestionRepo()
	repo.submitErr = errors.New("write denied")
	s := startedQuiz(t, repo)

	_, cmd := s.Update(ctrlS())
	s.Update(cmd())

	assert.Equal(t, phaseSubmitted, s.phase)
	assert.True(t, s.saveWarn)
	assert.True(t, strings.Contains(s.View(90, 30), "could not be saved"))
}
