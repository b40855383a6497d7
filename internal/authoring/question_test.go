package authoring_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/p-n-ai/pai-lms/internal/authoring"
	"github.com/p-n-ai/pai-lms/internal/content"
)

func TestNewQuestion(t *testing.T) {
	q := newEditor().NewQuestion()
	mc, ok := q.Kind.(content.MultipleChoice)
	if !ok {
		t.Fatalf("Kind = %T, want MultipleChoice", q.Kind)
	}
	if len(mc.Options) != 2 || mc.Options[0] != "Option A" || mc.Correct != 0 {
		t.Errorf("kind = %+v, want two placeholder options", mc)
	}
	if q.Points != 10 || q.ID == "" {
		t.Errorf("question = %+v, want id and 10 points", q)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestQuestionEditing(t *testing.T) {
	e := newEditor()
	quiz := content.QuizData{Title: "Q", PassingScore: 80}

	quiz, q1 := e.AddQuestion(quiz)
	quiz, q2 := e.AddQuestion(quiz)
	if len(quiz.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(quiz.Questions))
	}

	q1.Prompt = "Which drug is an opioid?"
	updated, err := e.UpdateQuestion(quiz, q1)
	if err != nil {
		t.Fatalf("UpdateQuestion() error = %v", err)
	}
	if updated.Questions[0].Prompt != q1.Prompt {
		t.Errorf("prompt = %q, want %q", updated.Questions[0].Prompt, q1.Prompt)
	}
	if quiz.Questions[0].Prompt != "" {
		t.Error("UpdateQuestion() modified its input")
	}

	removed, err := e.RemoveQuestion(updated, q1.ID)
	if err != nil {
		t.Fatalf("RemoveQuestion() error = %v", err)
	}
	if len(removed.Questions) != 1 || removed.Questions[0].ID != q2.ID {
		t.Errorf("questions = %+v, want only %s", removed.Questions, q2.ID)
	}

	if _, err := e.RemoveQuestion(removed, q1.ID); !errors.Is(err, authoring.ErrQuestionNotFound) {
		t.Errorf("error = %v, want ErrQuestionNotFound", err)
	}
	if _, err := e.UpdateQuestion(removed, q1); !errors.Is(err, authoring.ErrQuestionNotFound) {
		t.Errorf("error = %v, want ErrQuestionNotFound", err)
	}

	bad := q2
	bad.Kind = content.MultipleChoice{Options: []string{"only"}}
	if _, err := e.UpdateQuestion(removed, bad); !errors.Is(err, content.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestChangeQuestionType(t *testing.T) {
	e := newEditor()
	base := e.NewQuestion()
	base.Prompt = "Prompt"

	tests := []struct {
		typ   content.QuestionType
		check func(content.QuestionKind) bool
	}{
		{content.QuestionTrueFalse, func(k content.QuestionKind) bool {
			tf, ok := k.(content.TrueFalse)
			return ok && tf.Correct == 0
		}},
		{content.QuestionMatching, func(k content.QuestionKind) bool {
			m, ok := k.(content.Matching)
			return ok && len(m.Pairs) == 1
		}},
		{content.QuestionFillBlank, func(k content.QuestionKind) bool {
			f, ok := k.(content.FillBlank)
			return ok && f.Answer == ""
		}},
		{content.QuestionShortAnswer, func(k content.QuestionKind) bool {
			s, ok := k.(content.ShortAnswer)
			return ok && s.Guidance == authoring.DefaultShortAnswerGuidance
		}},
		{content.QuestionMultipleChoice, func(k content.QuestionKind) bool {
			m, ok := k.(content.MultipleChoice)
			return ok && len(m.Options) == 2
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := e.ChangeQuestionType(base, tt.typ)
			if err != nil {
				t.Fatalf("ChangeQuestionType() error = %v", err)
			}
			if got.Type() != tt.typ || !tt.check(got.Kind) {
				t.Errorf("Kind = %#v, want %s defaults", got.Kind, tt.typ)
			}
			if got.ID != base.ID || got.Prompt != "Prompt" || got.Points != base.Points {
				t.Errorf("question = %+v, want id, prompt and points kept", got)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}

	if _, err := e.ChangeQuestionType(base, "essay"); !errors.Is(err, content.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestNewCourse(t *testing.T) {
	c := newEditor().NewCourse()

	if c.Title != "New Clinical Course" || c.Status != content.CourseDraft || c.Category != content.CategoryClinicalSkills {
		t.Errorf("course = %+v, want draft clinical skills course", c)
	}
	if !c.CECredits.Equal(decimal.NewFromInt(1)) {
		t.Errorf("CECredits = %s, want 1", c.CECredits)
	}
	if len(c.Modules) != 1 {
		t.Fatalf("modules = %d, want 1", len(c.Modules))
	}
	m := c.Modules[0]
	if m.CourseID != c.ID || m.Title != "Module 1: Getting Started" || m.PassingScore != 80 || m.EstimatedMinutes != 10 {
		t.Errorf("module = %+v, want default first module", m)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestReplaceModule(t *testing.T) {
	e := newEditor()
	c := e.NewCourse()
	m, _, _ := e.AddBlock(c.Modules[0], content.BlockHeading, "")
	m.Title = "Renamed"

	got, err := authoring.ReplaceModule(c, m)
	if err != nil {
		t.Fatalf("ReplaceModule() error = %v", err)
	}
	if got.Modules[0].Title != "Renamed" || len(got.Modules[0].Blocks) != 1 {
		t.Errorf("module = %+v, want replaced module", got.Modules[0])
	}
	if len(c.Modules[0].Blocks) != 0 {
		t.Error("ReplaceModule() modified its input")
	}

	stray := m
	stray.ID = "missing"
	if _, err := authoring.ReplaceModule(c, stray); !errors.Is(err, authoring.ErrModuleNotFound) {
		t.Errorf("error = %v, want ErrModuleNotFound", err)
	}

	moved := m
	moved.CourseID = "other"
	if _, err := authoring.ReplaceModule(c, moved); !errors.Is(err, content.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestAppendModule(t *testing.T) {
	e := newEditor()
	c := e.NewCourse()
	m := e.NewModule(c, "")
	if m.Title != "Module 2" {
		t.Errorf("Title = %q, want Module 2", m.Title)
	}

	got, err := authoring.AppendModule(c, m)
	if err != nil {
		t.Fatalf("AppendModule() error = %v", err)
	}
	if len(got.Modules) != 2 || got.Modules[1].ID != m.ID {
		t.Errorf("modules = %+v, want new module last", got.Modules)
	}
	if _, err := authoring.AppendModule(got, m); !errors.Is(err, content.ErrInvalidDocument) {
		t.Errorf("duplicate error = %v, want ErrInvalidDocument", err)
	}
}
