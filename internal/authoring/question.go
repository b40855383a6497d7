package authoring

import (
	"fmt"
	"slices"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// DefaultQuestionPoints is the point value given to new questions.
const DefaultQuestionPoints = 10

// DefaultShortAnswerGuidance seeds the reviewer guidance of a new
// short-answer question.
const DefaultShortAnswerGuidance = "Describe the key components required for this clinical scenario..."

// NewQuestion returns a multiple-choice question with two placeholder
// options.
func (e *Editor) NewQuestion() content.Question {
	return content.Question{
		ID:     e.newID(),
		Points: DefaultQuestionPoints,
		Kind:   defaultKind(content.QuestionMultipleChoice),
	}
}

// AddQuestion appends a new question to the quiz.
func (e *Editor) AddQuestion(quiz content.QuizData) (content.QuizData, content.Question) {
	q := e.NewQuestion()
	out := quiz.Clone()
	out.Questions = append(out.Questions, q)
	return out, q.Clone()
}

// UpdateQuestion replaces the question with the same ID.
func (e *Editor) UpdateQuestion(quiz content.QuizData, q content.Question) (content.QuizData, error) {
	i := questionIndex(quiz, q.ID)
	if i < 0 {
		return quiz, fmt.Errorf("%w: %s", ErrQuestionNotFound, q.ID)
	}
	if err := q.Validate(); err != nil {
		return quiz, err
	}
	out := quiz.Clone()
	out.Questions[i] = q.Clone()
	return out, nil
}

// RemoveQuestion removes the question with the given ID.
func (e *Editor) RemoveQuestion(quiz content.QuizData, questionID string) (content.QuizData, error) {
	i := questionIndex(quiz, questionID)
	if i < 0 {
		return quiz, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	out := quiz.Clone()
	out.Questions = slices.Delete(out.Questions, i, i+1)
	return out, nil
}

// ChangeQuestionType returns the question reshaped to another type with
// that type's default answer key. The prompt, ID and points are kept.
func (e *Editor) ChangeQuestionType(q content.Question, t content.QuestionType) (content.Question, error) {
	kind := defaultKind(t)
	if kind == nil {
		return q, fmt.Errorf("%w: unknown question type %q", content.ErrInvalidDocument, t)
	}
	out := q.Clone()
	out.Kind = kind
	return out, nil
}

func defaultKind(t content.QuestionType) content.QuestionKind {
	switch t {
	case content.QuestionMultipleChoice:
		return content.MultipleChoice{Options: []string{"Option A", "Option B"}, Correct: 0}
	case content.QuestionTrueFalse:
		return content.TrueFalse{Correct: 0}
	case content.QuestionMatching:
		return content.Matching{Pairs: []content.MatchingPair{{}}}
	case content.QuestionFillBlank:
		return content.FillBlank{}
	case content.QuestionShortAnswer:
		return content.ShortAnswer{Guidance: DefaultShortAnswerGuidance}
	default:
		return nil
	}
}

func questionIndex(quiz content.QuizData, id string) int {
	return slices.IndexFunc(quiz.Questions, func(q content.Question) bool {
		return q.ID == id
	})
}
