package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gyansetu/internal/backend"
)

// TokenSource supplies the access token attached to relational requests so
// the service's row policies evaluate against the signed-in user.
type TokenSource interface {
	Token() string
}

// RESTRepo implements Repo against the hosted relational API.
type RESTRepo struct {
	client *backend.Client
	tokens TokenSource
}

var _ Repo = (*RESTRepo)(nil)

// NewRESTRepo creates a repo over client, authenticating with tokens.
func NewRESTRepo(client *backend.Client, tokens TokenSource) *RESTRepo {
	return &RESTRepo{client: client, tokens: tokens}
}

func (r *RESTRepo) from(table string) *backend.Query {
	return r.client.From(table, r.tokens.Token())
}

func (r *RESTRepo) ListLessons(ctx context.Context) ([]Lesson, error) {
	var lessons []Lesson
	err := r.from("lessons").Order("created_at", true).Get(ctx, &lessons)
	return lessons, err
}

func (r *RESTRepo) GetLesson(ctx context.Context, id string) (Lesson, error) {
	var lesson Lesson
	err := r.from("lessons").Eq("id", id).Single().Get(ctx, &lesson)
	return lesson, err
}

func (r *RESTRepo) LessonsByAuthor(ctx context.Context, authorID string) ([]Lesson, error) {
	var lessons []Lesson
	err := r.from("lessons").Eq("created_by", authorID).Get(ctx, &lessons)
	return lessons, err
}

func (r *RESTRepo) ListQuizzes(ctx context.Context, lessonID string) ([]Quiz, error) {
	var quizzes []Quiz
	err := r.from("quizzes").Eq("lesson_id", lessonID).Get(ctx, &quizzes)
	return quizzes, err
}

func (r *RESTRepo) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var quiz Quiz
	err := r.from("quizzes").Eq("id", id).Single().Get(ctx, &quiz)
	return quiz, err
}

func (r *RESTRepo) ListQuestions(ctx context.Context, quizID string) ([]Question, error) {
	var questions []Question
	err := r.from("quiz_questions").Eq("quiz_id", quizID).Order("order", false).Get(ctx, &questions)
	return questions, err
}

func (r *RESTRepo) ProgressFor(ctx context.Context, studentID string) ([]Progress, error) {
	var progress []Progress
	err := r.from("student_progress").Eq("student_id", studentID).Get(ctx, &progress)
	return progress, err
}

func (r *RESTRepo) EnsureStarted(ctx context.Context, studentID, lessonID string) (Progress, error) {
	var existing Progress
	err := r.from("student_progress").
		Eq("student_id", studentID).
		Eq("lesson_id", lessonID).
		Single().
		Get(ctx, &existing)
	if err == nil {
		return existing, nil
	}
	if !backend.IsNotFound(err) {
		return Progress{}, err
	}

	// No row yet: upsert keyed by the natural pair, so two concurrent
	// first views converge on a single row.
	now := time.Now().UTC()
	row := Progress{
		ID:             uuid.New().String(),
		StudentID:      studentID,
		LessonID:       lessonID,
		Status:         StatusInProgress,
		Percentage:     0,
		LastAccessedAt: &now,
	}
	var created Progress
	err = r.from("student_progress").
		Upsert(ctx, row, []string{"student_id", "lesson_id"}, &created)
	if err != nil {
		return Progress{}, fmt.Errorf("start progress: %w", err)
	}
	return created, nil
}

func (r *RESTRepo) MarkCompleted(ctx context.Context, studentID, lessonID string) error {
	now := time.Now().UTC()
	patch := map[string]any{
		"completion_status":   StatusCompleted,
		"progress_percentage": 100,
		"completed_at":        now.Format(time.RFC3339),
	}
	err := r.from("student_progress").
		Eq("student_id", studentID).
		Eq("lesson_id", lessonID).
		Update(ctx, patch)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (r *RESTRepo) AssessmentsByStudent(ctx context.Context, studentID string) ([]Assessment, error) {
	var assessments []Assessment
	err := r.from("student_assessments").Eq("student_id", studentID).Get(ctx, &assessments)
	return assessments, err
}

func (r *RESTRepo) AssessmentsForLessons(ctx context.Context, lessonIDs []string) ([]Assessment, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var assessments []Assessment
	err := r.from("student_assessments").In("lesson_id", lessonIDs).Get(ctx, &assessments)
	return assessments, err
}

func (r *RESTRepo) SubmitAssessment(ctx context.Context, a Assessment) (Assessment, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	var created Assessment
	if err := r.from("student_assessments").Insert(ctx, a, &created); err != nil {
		return Assessment{}, fmt.Errorf("submit assessment: %w", err)
	}
	return created, nil
}

func (r *RESTRepo) Students(ctx context.Context) ([]Identity, error) {
	var students []Identity
	err := r.from("users").Eq("role", string(RoleStudent)).Get(ctx, &students)
	return students, err
}
