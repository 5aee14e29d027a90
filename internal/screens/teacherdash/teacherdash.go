// Package teacherdash implements the teacher dashboard: class-level
// aggregates over the teacher's lessons and their students' assessments.
package teacherdash

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/screen"
	"github.com/abhisek/gyansetu/internal/stats"
	"github.com/abhisek/gyansetu/internal/ui/layout"
	"github.com/abhisek/gyansetu/internal/ui/theme"
)

// recentStudentCount caps the "recent student activity" list.
const recentStudentCount = 5

type loadedMsg struct {
	students    []portal.Identity
	lessons     []portal.Lesson
	assessments []portal.Assessment
	err         error
}

// TeacherDashboard implements screen.Screen.
type TeacherDashboard struct {
	repo  portal.Repo
	ident portal.Identity

	loading  bool
	errText  string
	students []portal.Identity
	summary  stats.Teacher
}

var _ screen.Screen = (*TeacherDashboard)(nil)
var _ screen.KeyHintProvider = (*TeacherDashboard)(nil)

// New creates the teacher dashboard for ident.
func New(repo portal.Repo, ident portal.Identity) *TeacherDashboard {
	return &TeacherDashboard{
		repo:    repo,
		ident:   ident,
		loading: true,
	}
}

func (d *TeacherDashboard) Title() string {
	return "Dashboard"
}

func (d *TeacherDashboard) Init() tea.Cmd {
	return d.load()
}

func (d *TeacherDashboard) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+L", Description: "Logout"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// load reads students, the teacher's lessons, and assessments belonging to
// those lessons; scoping happens server-side via the in-list filter.
func (d *TeacherDashboard) load() tea.Cmd {
	repo, teacherID := d.repo, d.ident.ID
	return func() tea.Msg {
		ctx := context.Background()

		students, err := repo.Students(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		lessons, err := repo.LessonsByAuthor(ctx, teacherID)
		if err != nil {
			return loadedMsg{err: err}
		}
		assessments, err := repo.AssessmentsForLessons(ctx, stats.LessonIDs(lessons))
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{students: students, lessons: lessons, assessments: assessments}
	}
}

func (d *TeacherDashboard) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		d.loading = false
		if msg.err != nil {
			d.errText = "Could not load your dashboard. Press r to retry."
			return d, nil
		}
		d.students = msg.students
		d.summary = stats.ComputeTeacher(msg.students, msg.lessons, msg.assessments)
		return d, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !d.loading {
			d.loading = true
			d.errText = ""
			return d, d.load()
		}
	}

	return d, nil
}

func (d *TeacherDashboard) View(width, height int) string {
	if d.loading {
		return centered(width, height, theme.Hint.Render("Loading dashboard..."))
	}
	if d.errText != "" {
		return centered(width, height, theme.ErrorText.Render(d.errText))
	}

	welcome := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).
		Render(fmt.Sprintf("Welcome, %s!", d.ident.FullName))
	tagline := theme.Hint.Render("Monitor student progress and manage lessons")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Students", fmt.Sprintf("%d", d.summary.TotalStudents)),
		"  ",
		statCard("Active Students", fmt.Sprintf("%d", d.summary.ActiveStudents)),
		"  ",
		statCard("Lessons Created", fmt.Sprintf("%d", d.summary.TotalLessons)),
		"  ",
		statCard("Avg Performance", fmt.Sprintf("%.0f%%", d.summary.AveragePerformance)),
	)

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render("Recent Student Activity")
	var rows []string
	limit := recentStudentCount
	if len(d.students) < limit {
		limit = len(d.students)
	}
	for _, st := range d.students[:limit] {
		rows = append(rows,
			"  "+lipgloss.NewStyle().Foreground(theme.Text).Render(st.FullName)+
				"  "+lipgloss.NewStyle().Foreground(theme.TextDim).Render(st.School))
	}
	if len(rows) == 0 {
		rows = append(rows, theme.Hint.Render("  No students registered yet"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{welcome, tagline, "", cards, "", header}, rows...)...,
	)
	return lipgloss.NewStyle().Padding(1, 3).Render(body)
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
