// Package lesson implements the lesson viewer. Opening a lesson is an
// implicit "start": the screen ensures a progress row exists before the
// content is shown.
package lesson

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/router"
	"github.com/abhisek/gyansetu/internal/screen"
	quizscreen "github.com/abhisek/gyansetu/internal/screens/quiz"
	"github.com/abhisek/gyansetu/internal/ui/components"
	"github.com/abhisek/gyansetu/internal/ui/layout"
	"github.com/abhisek/gyansetu/internal/ui/theme"
)

// loadedMsg carries the lesson, its ensured progress row, and its quizzes.
type loadedMsg struct {
	lesson   portal.Lesson
	progress portal.Progress
	quizzes  []portal.Quiz
	err      error
}

// completedMsg reports the mark-complete write.
type completedMsg struct {
	err error
}

// LessonScreen implements screen.Screen.
type LessonScreen struct {
	repo     portal.Repo
	ident    portal.Identity
	lessonID string

	loading  bool
	errText  string
	lesson   portal.Lesson
	progress portal.Progress
	quizzes  []portal.Quiz
	menu     components.Menu
	scroll   int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a lesson screen for the given lesson id.
func New(repo portal.Repo, ident portal.Identity, lessonID string) *LessonScreen {
	return &LessonScreen{
		repo:     repo,
		ident:    ident,
		lessonID: lessonID,
		loading:  true,
	}
}

func (s *LessonScreen) Title() string {
	if s.lesson.Title != "" {
		return s.lesson.Title
	}
	return "Lesson"
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.load()
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

// load fetches the lesson, ensures the progress row as an explicit
// operation, and fetches the attached quizzes. A missing lesson fails the
// whole view.
func (s *LessonScreen) load() tea.Cmd {
	repo, studentID, lessonID := s.repo, s.ident.ID, s.lessonID
	isStudent := s.ident.Role == portal.RoleStudent
	return func() tea.Msg {
		ctx := context.Background()

		lesson, err := repo.GetLesson(ctx, lessonID)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("load lesson: %w", err)}
		}

		var progress portal.Progress
		if isStudent {
			progress, err = repo.EnsureStarted(ctx, studentID, lessonID)
			if err != nil {
				return loadedMsg{err: fmt.Errorf("start progress: %w", err)}
			}
		}

		quizzes, err := repo.ListQuizzes(ctx, lessonID)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("load quizzes: %w", err)}
		}
		return loadedMsg{lesson: lesson, progress: progress, quizzes: quizzes}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errText = "This lesson could not be loaded."
			return s, nil
		}
		s.lesson = msg.lesson
		s.progress = msg.progress
		s.quizzes = msg.quizzes
		s.rebuildMenu()
		return s, nil

	case completedMsg:
		if msg.err != nil {
			s.errText = "Could not save your progress."
			return s, nil
		}
		s.progress.Status = portal.StatusCompleted
		s.progress.Percentage = 100
		s.rebuildMenu()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "pgup":
			if s.scroll > 0 {
				s.scroll--
			}
			return s, nil
		case "pgdown":
			s.scroll++
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LessonScreen) rebuildMenu() {
	var items []components.MenuItem

	if s.ident.Role == portal.RoleStudent && !s.progress.Completed() {
		items = append(items, components.MenuItem{
			Label:  "Mark as Complete",
			Action: s.markComplete,
		})
	}

	for _, q := range s.quizzes {
		quiz := q
		items = append(items, components.MenuItem{
			Label:  "Take Quiz: " + q.Title,
			Detail: q.Description,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: quizscreen.New(s.repo, s.ident, quiz.ID, s.lessonID),
					}
				}
			},
		})
	}

	s.menu = components.NewMenu(items)
}

// markComplete overwrites the progress row. It is not conditioned on any
// interaction with the content.
func (s *LessonScreen) markComplete() tea.Cmd {
	repo, studentID, lessonID := s.repo, s.ident.ID, s.lessonID
	return func() tea.Msg {
		return completedMsg{err: repo.MarkCompleted(context.Background(), studentID, lessonID)}
	}
}

func (s *LessonScreen) View(width, height int) string {
	if s.loading {
		return centered(width, height, theme.Hint.Render("Loading..."))
	}
	if s.errText != "" {
		return centered(width, height, theme.ErrorText.Render(s.errText))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(s.lesson.Title)
	meta := theme.Hint.Render(fmt.Sprintf(
		"Grade %d · %s · %s", s.lesson.GradeLevel, s.lesson.Subject, s.lesson.Language,
	))
	if s.progress.Completed() {
		title += "  " + theme.CompletedBadge.Render("✓ completed")
	}

	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width - 8).Render(s.lesson.Description)
	content := s.renderContent(width-8, height/2)

	var sections []string
	sections = append(sections, title, meta, "", desc, "", content, "")

	if len(s.menu.Items) > 0 {
		if len(s.quizzes) > 0 {
			sections = append(sections,
				lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render("Assessment Quizzes"))
		}
		sections = append(sections, s.menu.View())
	}

	return lipgloss.NewStyle().Padding(1, 3).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderContent shows a scrollable window over the lesson body.
func (s *LessonScreen) renderContent(width, maxLines int) string {
	wrapped := lipgloss.NewStyle().Width(width).Render(s.lesson.Content)
	lines := strings.Split(wrapped, "\n")

	if s.scroll > len(lines)-1 {
		s.scroll = len(lines) - 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
	end := s.scroll + maxLines
	if end > len(lines) {
		end = len(lines)
	}
	visible := strings.Join(lines[s.scroll:end], "\n")

	return theme.Card.Width(width).Render(visible)
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
