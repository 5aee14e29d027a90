// Package studentdash implements the student dashboard: summary statistics,
// an "up next" strip of incomplete lessons, and the full lesson list.
package studentdash

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/router"
	"github.com/abhisek/gyansetu/internal/screen"
	lessonscreen "github.com/abhisek/gyansetu/internal/screens/lesson"
	"github.com/abhisek/gyansetu/internal/stats"
	"github.com/abhisek/gyansetu/internal/ui/components"
	"github.com/abhisek/gyansetu/internal/ui/layout"
	"github.com/abhisek/gyansetu/internal/ui/theme"
)

// loadedMsg carries the three independent reads the dashboard joins in
// memory. A failed read surfaces as Err; there is no partial rendering.
type loadedMsg struct {
	lessons     []portal.Lesson
	progress    []portal.Progress
	assessments []portal.Assessment
	err         error
}

// StudentDashboard implements screen.Screen.
type StudentDashboard struct {
	repo  portal.Repo
	ident portal.Identity

	loading     bool
	errText     string
	lessons     []portal.Lesson
	byLesson    map[string]portal.Progress
	incomplete  []portal.Lesson
	summary     stats.Student
	streak      int
	menu        components.Menu
}

var _ screen.Screen = (*StudentDashboard)(nil)
var _ screen.KeyHintProvider = (*StudentDashboard)(nil)

// New creates the student dashboard for ident.
func New(repo portal.Repo, ident portal.Identity) *StudentDashboard {
	return &StudentDashboard{
		repo:    repo,
		ident:   ident,
		loading: true,
	}
}

func (d *StudentDashboard) Title() string {
	return "Dashboard"
}

func (d *StudentDashboard) Init() tea.Cmd {
	return d.load()
}

func (d *StudentDashboard) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open lesson"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+L", Description: "Logout"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// load issues the three reads and joins them in one message. Navigating away
// before it completes is safe: the router will have discarded this screen,
// so the late message updates nothing visible.
func (d *StudentDashboard) load() tea.Cmd {
	repo, studentID := d.repo, d.ident.ID
	return func() tea.Msg {
		ctx := context.Background()

		lessons, err := repo.ListLessons(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		progress, err := repo.ProgressFor(ctx, studentID)
		if err != nil {
			return loadedMsg{err: err}
		}
		assessments, err := repo.AssessmentsByStudent(ctx, studentID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{lessons: lessons, progress: progress, assessments: assessments}
	}
}

func (d *StudentDashboard) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		d.loading = false
		if msg.err != nil {
			d.errText = "Could not load your dashboard. Press r to retry."
			return d, nil
		}
		d.apply(msg)
		return d, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !d.loading {
			d.loading = true
			d.errText = ""
			return d, d.load()
		}
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *StudentDashboard) apply(msg loadedMsg) {
	d.lessons = msg.lessons
	d.byLesson = stats.ProgressByLesson(msg.progress)
	d.incomplete = stats.IncompleteLessons(msg.lessons, d.byLesson)
	d.summary = stats.ComputeStudent(msg.lessons, msg.progress, msg.assessments)
	d.streak = stats.Streak()

	items := make([]components.MenuItem, 0, len(d.lessons))
	for _, l := range d.lessons {
		lesson := l
		detail := fmt.Sprintf("Grade %d · %s · %s", l.GradeLevel, l.Subject, l.Language)
		label := l.Title
		if p, ok := d.byLesson[l.ID]; ok && p.Completed() {
			label += "  " + theme.CompletedBadge.Render("✓ completed")
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: detail,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: lessonscreen.New(d.repo, d.ident, lesson.ID),
					}
				}
			},
		})
	}
	d.menu = components.NewMenu(items)
}

func (d *StudentDashboard) View(width, height int) string {
	if d.loading {
		return centered(width, height, theme.Hint.Render("Loading dashboard..."))
	}
	if d.errText != "" {
		return centered(width, height, theme.ErrorText.Render(d.errText))
	}

	welcome := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).
		Render(fmt.Sprintf("Welcome back, %s!", d.ident.FullName))
	tagline := theme.Hint.Render("Continue your learning journey")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Lessons Completed", fmt.Sprintf("%d/%d", d.summary.CompletedLessons, d.summary.TotalLessons)),
		"  ",
		statCard("Average Score", fmt.Sprintf("%.0f%%", d.summary.AverageScore)),
		"  ",
		statCard("Learning Streak", fmt.Sprintf("%d days", d.streak)),
	)

	var sections []string
	sections = append(sections, welcome, tagline, "", cards, "")

	if len(d.incomplete) > 0 {
		header := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).
			Render(fmt.Sprintf("Continue Your Learning (%d lessons remaining)", len(d.incomplete)))
		sections = append(sections, header)
		limit := stats.HighlightCount
		if len(d.incomplete) < limit {
			limit = len(d.incomplete)
		}
		for _, l := range d.incomplete[:limit] {
			pct := 0
			if p, ok := d.byLesson[l.ID]; ok {
				pct = p.Percentage
			}
			bar := components.NewProgressBar(truncate(l.Title, 30), float64(pct)/100, true, 50)
			sections = append(sections, "  "+bar.View())
		}
		sections = append(sections, "")
	}

	listHeader := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render("All Lessons")
	sections = append(sections, listHeader, d.menu.View())

	return lipgloss.NewStyle().Padding(1, 3).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func statCard(label, value string) string {
	return theme.Card.Render(
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(value),
	)
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// truncate shortens s to at most n runes, ending in an ellipsis. Titles
// come in any of the portal's languages, so slicing is by rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
