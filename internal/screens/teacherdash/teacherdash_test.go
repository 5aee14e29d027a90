package teacherdash

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyansetu/internal/portal"
)

type fakeRepo struct {
	portal.Repo

	students    []portal.Identity
	lessons     []portal.Lesson
	assessments []portal.Assessment
	err         error

	lessonFilter []string
}

func (f *fakeRepo) Students(_ context.Context) ([]portal.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func (f *fakeRepo) LessonsByAuthor(_ context.Context, _ string) ([]portal.Lesson, error) {
	return f.lessons, nil
}

func (f *fakeRepo) AssessmentsForLessons(_ context.Context, ids []string) ([]portal.Assessment, error) {
	f.lessonFilter = ids
	return f.assessments, nil
}

func classRepo() *fakeRepo {
	return &fakeRepo{
		students: []portal.Identity{
			{ID: "stu1", FullName: "Ravi Kumar", School: "GHS Rampur", Role: portal.RoleStudent},
			{ID: "stu2", FullName: "Meena Devi", School: "GHS Rampur", Role: portal.RoleStudent},
			{ID: "stu3", FullName: "Arjun Singh", School: "GHS Rampur", Role: portal.RoleStudent},
		},
		lessons: []portal.Lesson{
			{ID: "l1", Title: "Photosynthesis", CreatedBy: "t1"},
			{ID: "l2", Title: "Fractions", CreatedBy: "t1"},
		},
		assessments: []portal.Assessment{
			{StudentID: "stu1", LessonID: "l1", Percentage: 80},
			{StudentID: "stu2", LessonID: "l2", Percentage: 60},
		},
	}
}

func loadedDash(t *testing.T, repo *fakeRepo) *TeacherDashboard {
	t.Helper()
	d := New(repo, portal.Identity{ID: "t1", FullName: "Anita Sharma", Role: portal.RoleTeacher})
	cmd := d.Init()
	require.NotNil(t, cmd)
	d.Update(cmd())
	return d
}

func TestDashboardAggregates(t *testing.T) {
	repo := classRepo()
	d := loadedDash(t, repo)

	assert.Equal(t, []string{"l1", "l2"}, repo.lessonFilter)
	assert.Equal(t, 3, d.summary.TotalStudents)
	assert.Equal(t, 2, d.summary.ActiveStudents)
	assert.Equal(t, 2, d.summary.TotalLessons)
	assert.InDelta(t, 70.0, d.summary.AveragePerformance, 0.001)

	view := d.View(110, 40)
	assert.Contains(t, view, "Welcome, Anita Sharma!")
	assert.Contains(t, view, "Ravi Kumar")
	assert.Contains(t, view, "GHS Rampur")
}

func TestNoStudents(t *testing.T) {
	repo := classRepo()
	repo.students = nil
	repo.assessments = nil
	d := loadedDash(t, repo)

	assert.Equal(t, 0, d.summary.TotalStudents)
	assert.Contains(t, d.View(110, 40), "No students registered yet")
}

func TestLoadFailure(t *testing.T) {
	repo := classRepo()
	repo.err = errors.New("network down")
	d := loadedDash(t, repo)

	assert.Contains(t, d.View(110, 40), "Could not load your dashboard")
}

func TestRefresh(t *testing.T) {
	repo := classRepo()
	d := loadedDash(t, repo)

	_, cmd := d.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	d.Update(cmd())
	assert.False(t, d.loading)
}
