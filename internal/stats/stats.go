// Package stats computes the dashboard aggregates. All functions are pure
// reductions over fetched rows; the caller re-runs them whenever data is
// reloaded.
package stats

import (
	"math/rand"

	"github.com/abhisek/gyansetu/internal/portal"
)

// HighlightCount is how many incomplete lessons the student dashboard
// surfaces in its "continue learning" section.
const HighlightCount = 3

// Student holds the student dashboard aggregates.
type Student struct {
	TotalLessons     int
	CompletedLessons int
	// AverageScore is the arithmetic mean of the student's assessment
	// percentages, 0 when no assessments exist.
	AverageScore float64
}

// ComputeStudent aggregates the student dashboard numbers.
func ComputeStudent(lessons []portal.Lesson, progress []portal.Progress, assessments []portal.Assessment) Student {
	s := Student{TotalLessons: len(lessons)}
	for _, p := range progress {
		if p.Completed() {
			s.CompletedLessons++
		}
	}
	if len(assessments) > 0 {
		var sum float64
		for _, a := range assessments {
			sum += a.Percentage
		}
		s.AverageScore = sum / float64(len(assessments))
	}
	return s
}

// ProgressByLesson indexes progress rows by lesson id.
func ProgressByLesson(progress []portal.Progress) map[string]portal.Progress {
	m := make(map[string]portal.Progress, len(progress))
	for _, p := range progress {
		m[p.LessonID] = p
	}
	return m
}

// IncompleteLessons filters lessons with no progress row or a non-completed
// status, preserving the source order.
func IncompleteLessons(lessons []portal.Lesson, byLesson map[string]portal.Progress) []portal.Lesson {
	var out []portal.Lesson
	for _, l := range lessons {
		p, ok := byLesson[l.ID]
		if !ok || !p.Completed() {
			out = append(out, l)
		}
	}
	return out
}

// Streak returns the "learning streak" shown on the student dashboard.
// It is generated fresh per render and carries no persisted meaning.
func Streak() int {
	return rand.Intn(7) + 1
}

// Teacher holds the teacher dashboard aggregates.
type Teacher struct {
	TotalStudents int
	TotalLessons  int
	// AveragePerformance is the mean percentage over assessments belonging
	// to the teacher's lessons, 0 when none exist.
	AveragePerformance float64
	// ActiveStudents counts distinct students appearing in those
	// assessments, over all time.
	ActiveStudents int
}

// ComputeTeacher aggregates the teacher dashboard numbers. assessments must
// already be scoped to the teacher's lessons.
func ComputeTeacher(students []portal.Identity, lessons []portal.Lesson, assessments []portal.Assessment) Teacher {
	t := Teacher{
		TotalStudents: len(students),
		TotalLessons:  len(lessons),
	}
	if len(assessments) > 0 {
		var sum float64
		active := make(map[string]struct{})
		for _, a := range assessments {
			sum += a.Percentage
			active[a.StudentID] = struct{}{}
		}
		t.AveragePerformance = sum / float64(len(assessments))
		t.ActiveStudents = len(active)
	}
	return t
}

// LessonIDs extracts ids in order.
func LessonIDs(lessons []portal.Lesson) []string {
	ids := make([]string, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	return ids
}
