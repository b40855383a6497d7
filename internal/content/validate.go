package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDocument is wrapped by every structural validation failure.
var ErrInvalidDocument = errors.New("invalid document")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors match the wire document.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkStruct(what string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, what, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidDocument, what, strings.Join(msgs, "; "))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

// Validate checks the whole course document, including every module.
func (c Course) Validate() error {
	if err := checkStruct("course "+c.ID, c); err != nil {
		return err
	}
	if c.CECredits.IsNegative() {
		return invalidf("course %s: ceCredits must not be negative", c.ID)
	}

	seen := make(map[string]bool, len(c.Modules))
	for i, m := range c.Modules {
		if m.CourseID != c.ID {
			return invalidf("course %s: module %q belongs to course %q", c.ID, m.ID, m.CourseID)
		}
		if seen[m.ID] {
			return invalidf("course %s: duplicate module id %q", c.ID, m.ID)
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the module and every block it owns.
func (m Module) Validate() error {
	if err := checkStruct("module "+m.ID, m); err != nil {
		return err
	}

	seen := make(map[string]bool, len(m.Blocks))
	for i, b := range m.Blocks {
		if b.ModuleID != m.ID {
			return invalidf("module %s: block %q belongs to module %q", m.ID, b.ID, b.ModuleID)
		}
		if seen[b.ID] {
			return invalidf("module %s: duplicate block id %q", m.ID, b.ID)
		}
		seen[b.ID] = true
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the block and its payload.
func (b Block) Validate() error {
	if err := checkStruct("block "+b.ID, b); err != nil {
		return err
	}
	if b.Data == nil {
		return invalidf("block %s: missing data", b.ID)
	}
	if err := b.Data.validate(); err != nil {
		return fmt.Errorf("block %s (%s): %w", b.ID, b.Type(), err)
	}
	return nil
}

// ValidateData checks a block payload on its own.
func ValidateData(d BlockData) error {
	if d == nil {
		return invalidf("missing data")
	}
	return d.validate()
}

func (d HeadingData) validate() error { return checkStruct("heading", d) }
func (d TextData) validate() error    { return checkStruct("text", d) }
func (d ImageData) validate() error   { return checkStruct("image", d) }
func (d VideoData) validate() error   { return checkStruct("video", d) }

func (d ChecklistData) validate() error { return nil }

func (d QuizData) validate() error {
	if err := checkStruct("quiz", d); err != nil {
		return err
	}
	seen := make(map[string]bool, len(d.Questions))
	for i, q := range d.Questions {
		if seen[q.ID] {
			return invalidf("quiz: duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the question and its type-specific shape.
func (q Question) Validate() error {
	if err := checkStruct("question "+q.ID, q); err != nil {
		return err
	}
	if q.Kind == nil {
		return invalidf("question %s: missing type", q.ID)
	}
	if err := q.Kind.validate(); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	return nil
}

func (k MultipleChoice) validate() error {
	if err := checkStruct(string(QuestionMultipleChoice), k); err != nil {
		return err
	}
	if k.Correct >= len(k.Options) {
		return invalidf("multiple-choice: correctAnswer %d out of range for %d options", k.Correct, len(k.Options))
	}
	return nil
}

func (k TrueFalse) validate() error   { return checkStruct(string(QuestionTrueFalse), k) }
func (k Matching) validate() error    { return checkStruct(string(QuestionMatching), k) }
func (k FillBlank) validate() error   { return nil }
func (k ShortAnswer) validate() error { return nil }
