package studentdash

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/router"
)

type fakeRepo struct {
	portal.Repo

	lessons     []portal.Lesson
	progress    []portal.Progress
	assessments []portal.Assessment
	err         error

	listCalls int
}

func (f *fakeRepo) ListLessons(_ context.Context) ([]portal.Lesson, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.lessons, nil
}

func (f *fakeRepo) ProgressFor(_ context.Context, _ string) ([]portal.Progress, error) {
	return f.progress, nil
}

func (f *fakeRepo) AssessmentsByStudent(_ context.Context, _ string) ([]portal.Assessment, error) {
	return f.assessments, nil
}

func classRepo() *fakeRepo {
	now := time.Now().UTC()
	return &fakeRepo{
		lessons: []portal.Lesson{
			{ID: "l1", Title: "Photosynthesis", Subject: "Science", GradeLevel: 7, Language: "en"},
			{ID: "l2", Title: "Fractions", Subject: "Math", GradeLevel: 7, Language: "en"},
			{ID: "l3", Title: "Grammar", Subject: "English", GradeLevel: 7, Language: "en"},
		},
		progress: []portal.Progress{
			{StudentID: "stu1", LessonID: "l1", Status: portal.StatusCompleted, Percentage: 100, CompletedAt: &now},
			{StudentID: "stu1", LessonID: "l2", Status: portal.StatusInProgress, Percentage: 40},
		},
		assessments: []portal.Assessment{
			{StudentID: "stu1", QuizID: "qz1", LessonID: "l1", Score: 8, TotalMarks: 10, Percentage: 80},
		},
	}
}

func loadedDash(t *testing.T, repo *fakeRepo) *StudentDashboard {
	t.Helper()
	d := New(repo, portal.Identity{ID: "stu1", FullName: "Ravi Kumar", Role: portal.RoleStudent})
	cmd := d.Init()
	require.NotNil(t, cmd)
	d.Update(cmd())
	return d
}

func TestDashboardSummary(t *testing.T) {
	d := loadedDash(t, classRepo())

	assert.Equal(t, 3, d.summary.TotalLessons)
	assert.Equal(t, 1, d.summary.CompletedLessons)
	assert.InDelta(t, 80.0, d.summary.AverageScore, 0.001)
	assert.GreaterOrEqual(t, d.streak, 1)
	assert.LessOrEqual(t, d.streak, 7)

	view := d.View(100, 40)
	assert.Contains(t, view, "Welcome back, Ravi Kumar!")
	assert.Contains(t, view, "1/3")
	assert.Contains(t, view, "2 lessons remaining")
	assert.Contains(t, view, "Photosynthesis")
}

func TestIncompleteExcludesCompleted(t *testing.T) {
	d := loadedDash(t, classRepo())

	require.Len(t, d.incomplete, 2)
	assert.Equal(t, "Fractions", d.incomplete[0].Title)
	assert.Equal(t, "Grammar", d.incomplete[1].Title)
}

func TestLoadFailure(t *testing.T) {
	repo := classRepo()
	repo.err = errors.New("network down")
	d := loadedDash(t, repo)

	assert.Contains(t, d.View(100, 40), "Could not load your dashboard")
}

func TestRefresh(t *testing.T) {
	repo := classRepo()
	d := loadedDash(t, repo)
	require.Equal(t, 1, repo.listCalls)

	_, cmd := d.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	d.Update(cmd())
	assert.Equal(t, 2, repo.listCalls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Fractions", truncate("Fractions", 30))

	got := truncate("प्रकाश संश्लेषण और पौधों का भोजन", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "स", truncate("संश्लेषण", 1))
}

func TestSelectingLessonPushesViewer(t *testing.T) {
	d := loadedDash(t, classRepo())

	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Lesson", push.Screen.Title())
}
