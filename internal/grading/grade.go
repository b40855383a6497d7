// Package grading scores a learner's answers against a module's quiz
// blocks. Every function here is pure.
package grading

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// MinShortAnswerLength is the number of characters a short answer needs to
// be submitted and to earn credit.
const MinShortAnswerLength = 20

// Result is the outcome of grading one submission.
type Result struct {
	Score       int              `json:"score"`
	Passed      bool             `json:"passed"`
	NeedsReview bool             `json:"needsReview"`
	Earned      int              `json:"earned"`
	Total       int              `json:"total"`
	Questions   []QuestionResult `json:"questions,omitempty"`
}

// QuestionResult is the verdict for a single question.
type QuestionResult struct {
	BlockID     string               `json:"blockId"`
	QuestionID  string               `json:"questionId"`
	Type        content.QuestionType `json:"type"`
	Correct     bool                 `json:"correct"`
	NeedsReview bool                 `json:"needsReview,omitempty"`
}

// Grade scores answers against every quiz block of the module.
//
// A module without quiz blocks always passes with 100. Otherwise each
// question counts once regardless of its points, and the score is the
// percentage of questions earned rounded half up. Any short-answer
// question flags the whole submission for review.
func Grade(m content.Module, answers Answers) Result {
	var res Result
	hasQuiz := false

	for _, b := range m.Blocks {
		quiz, ok := b.Quiz()
		if !ok {
			continue
		}
		hasQuiz = true

		for i, q := range quiz.Questions {
			qr := gradeQuestion(q, answers.Slot(b.ID, i))
			qr.BlockID = b.ID
			res.Total++
			if qr.Correct {
				res.Earned++
			}
			if qr.NeedsReview {
				res.NeedsReview = true
			}
			res.Questions = append(res.Questions, qr)
		}
	}

	if !hasQuiz {
		return Result{Score: 100, Passed: true}
	}
	res.Score = percent(res.Earned, res.Total)
	res.Passed = res.Score >= m.PassingScore
	return res
}

func gradeQuestion(q content.Question, ans Answer) QuestionResult {
	qr := QuestionResult{QuestionID: q.ID, Type: q.Type()}

	switch k := q.Kind.(type) {
	case content.MultipleChoice:
		c, ok := ans.(Choice)
		qr.Correct = ok && int(c) == k.Correct
	case content.TrueFalse:
		c, ok := ans.(Choice)
		qr.Correct = ok && int(c) == k.Correct
	case content.FillBlank:
		t, ok := ans.(Text)
		qr.Correct = ok && fold(string(t)) == fold(k.Answer)
	case content.Matching:
		m, ok := ans.(Matches)
		qr.Correct = ok && matchesPairs(m, k.Pairs)
	case content.ShortAnswer:
		qr.NeedsReview = true
		t, ok := ans.(Text)
		qr.Correct = ok && longEnough(string(t))
	}
	return qr
}

func matchesPairs(m Matches, pairs []content.MatchingPair) bool {
	if len(m) != len(pairs) {
		return false
	}
	for i, p := range pairs {
		if m[i] != p.Right {
			return false
		}
	}
	return true
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func longEnough(s string) bool {
	return utf8.RuneCountInString(s) >= MinShortAnswerLength
}

// percent returns earned/total*100 rounded half up. A quiz without
// questions scores 100.
func percent(earned, total int) int {
	if total == 0 {
		return 100
	}
	return (200*earned + total) / (2 * total)
}
