package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// ErrIncompleteSubmission is returned when a question lacks a qualifying
// answer. Submissions that fail this check are rejected, not graded.
var ErrIncompleteSubmission = errors.New("incomplete submission")

// CanSubmit reports whether every quiz question has a qualifying answer.
func CanSubmit(m content.Module, answers Answers) bool {
	return len(unanswered(m, answers)) == 0
}

// CheckSubmission returns an error naming every question that lacks a
// qualifying answer.
func CheckSubmission(m content.Module, answers Answers) error {
	missing := unanswered(m, answers)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: unanswered %s", ErrIncompleteSubmission, strings.Join(missing, ", "))
}

func unanswered(m content.Module, answers Answers) []string {
	var missing []string
	for _, b := range m.Blocks {
		quiz, ok := b.Quiz()
		if !ok {
			continue
		}
		for i, q := range quiz.Questions {
			if !answered(q, answers.Slot(b.ID, i)) {
				missing = append(missing, b.ID+"/"+q.ID)
			}
		}
	}
	return missing
}

func answered(q content.Question, ans Answer) bool {
	switch k := q.Kind.(type) {
	case content.MultipleChoice:
		c, ok := ans.(Choice)
		return ok && c >= 0 && int(c) < len(k.Options)
	case content.TrueFalse:
		c, ok := ans.(Choice)
		return ok && c >= 0 && int(c) < len(content.TrueFalseOptions)
	case content.FillBlank:
		t, ok := ans.(Text)
		return ok && strings.TrimSpace(string(t)) != ""
	case content.Matching:
		m, ok := ans.(Matches)
		if !ok || len(m) != len(k.Pairs) {
			return false
		}
		for _, v := range m {
			if v == "" {
				return false
			}
		}
		return true
	case content.ShortAnswer:
		t, ok := ans.(Text)
		return ok && longEnough(string(t))
	default:
		return false
	}
}
