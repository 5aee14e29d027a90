package portal

import "context"

// Repo is the data-access surface of the portal. Every method is one
// request/response round trip to the hosted relational API (or a small fixed
// number of them); multi-entity views issue several calls and join in memory.
type Repo interface {
	// Lessons, newest first.
	ListLessons(ctx context.Context) ([]Lesson, error)
	GetLesson(ctx context.Context, id string) (Lesson, error)
	LessonsByAuthor(ctx context.Context, authorID string) ([]Lesson, error)

	// Quizzes and their questions.
	ListQuizzes(ctx context.Context, lessonID string) ([]Quiz, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	// ListQuestions returns the quiz's questions in ascending position order.
	ListQuestions(ctx context.Context, quizID string) ([]Question, error)

	// Progress.
	ProgressFor(ctx context.Context, studentID string) ([]Progress, error)
	// EnsureStarted idempotently creates the (student, lesson) progress row
	// with status in_progress, percentage 0, and last_accessed_at stamped.
	// An existing row, whatever its status, is returned untouched.
	EnsureStarted(ctx context.Context, studentID, lessonID string) (Progress, error)
	// MarkCompleted overwrites the row to completed/100 and stamps
	// completed_at. It is not conditioned on any prerequisite.
	MarkCompleted(ctx context.Context, studentID, lessonID string) error

	// Assessments.
	AssessmentsByStudent(ctx context.Context, studentID string) ([]Assessment, error)
	AssessmentsForLessons(ctx context.Context, lessonIDs []string) ([]Assessment, error)
	SubmitAssessment(ctx context.Context, a Assessment) (Assessment, error)

	// Identities. Profile resolution and creation for the signed-in user
	// belong to the session store, which queries with a token it has not
	// yet published.
	Students(ctx context.Context) ([]Identity, error)
}
