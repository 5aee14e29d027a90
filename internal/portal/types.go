package portal

import "time"

// Role identifies what kind of user an identity represents.
// Roles are assigned at registration and never change afterwards.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Identity is an authenticated user's profile row.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	School   string `json:"school"`
	Language string `json:"language_preference"`
}

// Lesson is a unit of learning content. Lessons are immutable from the
// student's point of view.
type Lesson struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Subject     string    `json:"subject"`
	GradeLevel  int       `json:"grade_level"`
	Language    string    `json:"language"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Quiz is an assessment attached to a lesson.
type Quiz struct {
	ID          string    `json:"id"`
	LessonID    string    `json:"lesson_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionKind discriminates how a question is answered.
type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	ShortAnswer    QuestionKind = "short_answer"
)

// Question is a single quiz question. Position is unique within a quiz and
// defines traversal order.
type Question struct {
	ID            string       `json:"id"`
	QuizID        string       `json:"quiz_id"`
	Prompt        string       `json:"question_text"`
	Kind          QuestionKind `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Marks         int          `json:"marks"`
	Position      int          `json:"order"`
}

// Status is the completion state of a progress row. The client only ever
// moves a row forward: in_progress on first view, completed on mark-complete.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Progress tracks one student's completion of one lesson. At most one row
// exists per (student, lesson) pair.
type Progress struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	LessonID       string     `json:"lesson_id"`
	Status         Status     `json:"completion_status"`
	Percentage     int        `json:"progress_percentage"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// Completed reports whether the lesson has been marked complete.
func (p Progress) Completed() bool {
	return p.Status == StatusCompleted
}

// Assessment is an immutable log of one quiz submission and its score.
// One row is appended per submission; there is no update-in-place.
type Assessment struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	QuizID      string            `json:"quiz_id"`
	LessonID    string            `json:"lesson_id"`
	Score       int               `json:"score"`
	TotalMarks  int               `json:"total_marks"`
	Percentage  float64           `json:"percentage"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	Answers     map[string]string `json:"answers"`
}
