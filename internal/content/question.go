package content

// QuestionType is the discriminant of a quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionMatching       QuestionType = "matching"
	QuestionFillBlank      QuestionType = "fill-blank"
	QuestionShortAnswer    QuestionType = "short-answer"
)

// QuestionTypes lists every question type.
var QuestionTypes = []QuestionType{
	QuestionMultipleChoice,
	QuestionTrueFalse,
	QuestionMatching,
	QuestionFillBlank,
	QuestionShortAnswer,
}

// TrueFalseOptions are the fixed options of a true-false question.
var TrueFalseOptions = []string{"True", "False"}

// QuestionKind holds the type-specific shape of a question. The set of
// implementations is closed: MultipleChoice, TrueFalse, Matching, FillBlank
// and ShortAnswer.
type QuestionKind interface {
	QuestionType() QuestionType
	cloneKind() QuestionKind
	validate() error
}

// Question is a single quiz item.
//
// Points is informational. Grading weighs every question equally.
type Question struct {
	ID     string       `json:"id" validate:"required"`
	Prompt string       `json:"question"`
	Points int          `json:"points" validate:"min=0"`
	Kind   QuestionKind `json:"-" validate:"-"`
}

// Type returns the discriminant of the question's shape.
func (q Question) Type() QuestionType {
	if q.Kind == nil {
		return ""
	}
	return q.Kind.QuestionType()
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Kind != nil {
		out.Kind = q.Kind.cloneKind()
	}
	return out
}

// MultipleChoice is answered with the index of one option.
type MultipleChoice struct {
	Options []string `json:"options" validate:"min=2"`
	Correct int      `json:"correctAnswer" validate:"min=0"`
}

func (MultipleChoice) QuestionType() QuestionType { return QuestionMultipleChoice }

func (k MultipleChoice) cloneKind() QuestionKind {
	if k.Options != nil {
		k.Options = append([]string(nil), k.Options...)
	}
	return k
}

// TrueFalse is answered with 0 (True) or 1 (False).
type TrueFalse struct {
	Correct int `json:"correctAnswer" validate:"min=0,max=1"`
}

func (TrueFalse) QuestionType() QuestionType { return QuestionTrueFalse }
func (k TrueFalse) cloneKind() QuestionKind  { return k }

// MatchingPair is one left/right association.
type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Matching is answered with the right-hand values in pair order.
type Matching struct {
	Pairs []MatchingPair `json:"matchingPairs" validate:"min=1"`
}

func (Matching) QuestionType() QuestionType { return QuestionMatching }

func (k Matching) cloneKind() QuestionKind {
	if k.Pairs != nil {
		k.Pairs = append([]MatchingPair(nil), k.Pairs...)
	}
	return k
}

// FillBlank is answered with a word or phrase compared case-insensitively.
type FillBlank struct {
	Answer string `json:"correctAnswer"`
}

func (FillBlank) QuestionType() QuestionType { return QuestionFillBlank }
func (k FillBlank) cloneKind() QuestionKind  { return k }

// ShortAnswer is free text judged by a reviewer. Guidance is the rubric or
// exemplar shown to the reviewer; it is not an answer key.
type ShortAnswer struct {
	Guidance string `json:"correctAnswer"`
}

func (ShortAnswer) QuestionType() QuestionType { return QuestionShortAnswer }
func (k ShortAnswer) cloneKind() QuestionKind  { return k }
