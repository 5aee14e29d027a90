package portal

import "fmt"

// Answer is what a student submitted for one question. It is a tagged
// variant: multiple-choice answers carry a validated option index, short
// answers carry raw text. Constructing an option answer with an index that
// does not exist in the question fails, so invalid selections never reach
// the answer map.
type Answer struct {
	Kind   QuestionKind
	Option int    // index into Question.Options, multiple choice only
	text   string // resolved option text or raw short-answer text
}

// OptionAnswer selects the option at index i of a multiple-choice question.
func OptionAnswer(q Question, i int) (Answer, error) {
	if q.Kind != MultipleChoice {
		return Answer{}, fmt.Errorf("question %s is not multiple choice", q.ID)
	}
	if i < 0 || i >= len(q.Options) {
		return Answer{}, fmt.Errorf("option %d out of range for question %s (%d options)", i, q.ID, len(q.Options))
	}
	return Answer{Kind: MultipleChoice, Option: i, text: q.Options[i]}, nil
}

// TextAnswer wraps free text for a short-answer question.
func TextAnswer(text string) Answer {
	return Answer{Kind: ShortAnswer, text: text}
}

// Value returns the submitted string as it is compared against the correct
// answer and persisted: the selected option's text, or the raw text.
func (a Answer) Value() string {
	return a.text
}

// AnswerSheet collects answers keyed by question id. Unanswered questions
// simply have no entry.
type AnswerSheet map[string]Answer

// Wire converts the sheet to the question-id to string map stored on an
// assessment row.
func (s AnswerSheet) Wire() map[string]string {
	out := make(map[string]string, len(s))
	for id, a := range s {
		out[id] = a.Value()
	}
	return out
}
