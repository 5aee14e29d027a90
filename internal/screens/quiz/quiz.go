// Package quiz implements the quiz player: Loading -> Answering -> Submitted.
// Questions are traversed strictly in display order with the index clamped
// to the question range; answers are kept per question id so revisiting a
// question restores what was entered. Submission grades once, persists one
// assessment row, and is one-way — the only exit is back to the lesson.
package quiz

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/scoring"
	"github.com/abhisek/gyansetu/internal/screen"
	"github.com/abhisek/gyansetu/internal/ui/components"
	"github.com/abhisek/gyansetu/internal/ui/layout"
	"github.com/abhisek/gyansetu/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseSubmitted
	phaseRejected // quiz has no questions
	phaseFailed
)

// loadedMsg carries the quiz and its ordered questions.
type loadedMsg struct {
	quiz      portal.Quiz
	questions []portal.Question
	err       error
}

// submittedMsg reports grading and persistence of the assessment.
type submittedMsg struct {
	result     scoring.Result
	persistErr error
}

// QuizScreen implements screen.Screen.
type QuizScreen struct {
	repo     portal.Repo
	ident    portal.Identity
	quizID   string
	lessonID string

	phase     phase
	quiz      portal.Quiz
	questions []portal.Question
	index     int
	sheet     portal.AnswerSheet
	choice    components.ChoiceList
	input     components.TextInput
	startedAt time.Time
	result    scoring.Result
	saveWarn  bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen. lessonID rides along so the persisted
// assessment can reference the lesson the quiz belongs to.
func New(repo portal.Repo, ident portal.Identity, quizID, lessonID string) *QuizScreen {
	return &QuizScreen{
		repo:     repo,
		ident:    ident,
		quizID:   quizID,
		lessonID: lessonID,
		phase:    phaseLoading,
		sheet:    portal.AnswerSheet{},
	}
}

func (s *QuizScreen) Title() string {
	if s.quiz.Title != "" {
		return s.quiz.Title
	}
	return "Quiz"
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "Shift+Tab", Description: "Previous"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back to lesson"},
		}
	}
}

func (s *QuizScreen) load() tea.Cmd {
	repo, quizID := s.repo, s.quizID
	return func() tea.Msg {
		ctx := context.Background()

		quiz, err := repo.GetQuiz(ctx, quizID)
		if err != nil {
			return loadedMsg{err: err}
		}
		questions, err := repo.ListQuestions(ctx, quizID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{quiz: quiz, questions: questions}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case submittedMsg:
		s.phase = phaseSubmitted
		s.result = msg.result
		s.saveWarn = msg.persistErr != nil
		return s, nil

	case tea.KeyMsg:
		if s.phase != phaseAnswering {
			return s, nil
		}
		switch msg.String() {
		case "tab":
			s.storeTextAnswer()
			return s, s.goTo(s.index + 1)
		case "shift+tab":
			s.storeTextAnswer()
			return s, s.goTo(s.index - 1)
		case "ctrl+s":
			s.storeTextAnswer()
			return s, s.submit()
		}
	}

	if s.phase == phaseAnswering {
		return s, s.updateAnswerWidget(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.phase = phaseFailed
		return s, nil
	}
	if len(msg.questions) == 0 {
		// An empty quiz has no defined score; refuse to enter the player.
		s.phase = phaseRejected
		s.quiz = msg.quiz
		return s, nil
	}
	s.quiz = msg.quiz
	s.questions = msg.questions
	s.startedAt = time.Now().UTC()
	s.phase = phaseAnswering
	return s, s.goTo(0)
}

// goTo moves the current index, clamped to [0, len-1], and rebuilds the
// answer widget from the stored answer for that question.
func (s *QuizScreen) goTo(index int) tea.Cmd {
	if index < 0 {
		index = 0
	}
	if index > len(s.questions)-1 {
		index = len(s.questions) - 1
	}
	s.index = index

	q := s.questions[s.index]
	stored, answered := s.sheet[q.ID]

	switch q.Kind {
	case portal.MultipleChoice:
		chosen := -1
		if answered {
			chosen = stored.Option
		}
		s.choice = components.NewChoiceList(q.Options, chosen)
		return nil
	default:
		s.input = components.NewTextInput("Your answer", "Type your answer here", 200)
		if answered {
			s.input.SetValue(stored.Value())
		}
		return s.input.Focus()
	}
}

// storeTextAnswer captures the free-text widget's value before navigation
// or submission. Empty text counts as unanswered.
func (s *QuizScreen) storeTextAnswer() {
	q := s.questions[s.index]
	if q.Kind != portal.ShortAnswer {
		return
	}
	if v := s.input.Value(); v != "" {
		s.sheet[q.ID] = portal.TextAnswer(v)
	} else {
		delete(s.sheet, q.ID)
	}
}

func (s *QuizScreen) updateAnswerWidget(msg tea.Msg) tea.Cmd {
	q := s.questions[s.index]
	switch q.Kind {
	case portal.MultipleChoice:
		var changed bool
		s.choice, changed = s.choice.Update(msg)
		if changed {
			a, err := portal.OptionAnswer(q, s.choice.Chosen)
			if err == nil {
				s.sheet[q.ID] = a
			}
		}
		return nil
	default:
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
}

// submit grades the sheet and persists one assessment row. The result is
// shown even when the write fails; the screen only flags that the attempt
// was not saved.
func (s *QuizScreen) submit() tea.Cmd {
	repo := s.repo
	questions := s.questions
	sheet := s.sheet
	a := portal.Assessment{
		StudentID: s.ident.ID,
		QuizID:    s.quizID,
		LessonID:  s.lessonID,
		StartedAt: s.startedAt,
	}
	return func() tea.Msg {
		result, err := scoring.Grade(questions, sheet)
		if err != nil {
			// Unreachable: zero-question quizzes never enter Answering.
			return submittedMsg{persistErr: err}
		}

		now := time.Now().UTC()
		a.Score = result.Score
		a.TotalMarks = result.TotalMarks
		a.Percentage = result.Percentage
		a.CompletedAt = &now
		a.Answers = sheet.Wire()

		_, persistErr := repo.SubmitAssessment(context.Background(), a)
		return submittedMsg{result: result, persistErr: persistErr}
	}
}

func (s *QuizScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return centered(width, height, theme.Hint.Render("Loading quiz..."))
	case phaseFailed:
		return centered(width, height, theme.ErrorText.Render("This quiz could not be loaded."))
	case phaseRejected:
		return centered(width, height,
			theme.ErrorText.Render("This quiz has no questions yet.")+"\n\n"+
				theme.Hint.Render("Press Esc to go back to the lesson."))
	case phaseSubmitted:
		return s.viewResult(width, height)
	}
	return s.viewQuestion(width, height)
}

func (s *QuizScreen) viewQuestion(width, height int) string {
	q := s.questions[s.index]

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(s.quiz.Title)
	counter := theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions)))
	bar := components.NewProgressBar("", float64(s.index+1)/float64(len(s.questions)), false, 50)

	prompt := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).
		Width(width - 10).Render(q.Prompt)
	marks := theme.Hint.Render(fmt.Sprintf("%d marks", q.Marks))

	var answer string
	if q.Kind == portal.MultipleChoice {
		answer = s.choice.View()
	} else {
		answer = s.input.View()
	}

	card := theme.Card.Width(width - 8).Render(
		lipgloss.JoinVertical(lipgloss.Left, prompt, marks, "", answer),
	)

	body := lipgloss.JoinVertical(lipgloss.Left, title, counter, bar.View(), "", card)
	return lipgloss.NewStyle().Padding(1, 3).Render(body)
}

func (s *QuizScreen) viewResult(width, height int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.Success).Render("Quiz Completed!")
	score := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).
		Render(fmt.Sprintf("Your Score: %.1f%%", s.result.Percentage))
	detail := theme.Hint.Render(fmt.Sprintf("%d out of %d marks", s.result.Score, s.result.TotalMarks))

	parts := []string{heading, "", score, detail}
	if s.saveWarn {
		parts = append(parts, "", theme.ErrorText.Render("Your attempt could not be saved."))
	}
	parts = append(parts, "", theme.Hint.Render("Press Esc to return to the lesson."))

	return centered(width, height, theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, parts...)))
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
