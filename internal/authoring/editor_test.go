package authoring_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/p-n-ai/pai-lms/internal/authoring"
	"github.com/p-n-ai/pai-lms/internal/content"
)

func newEditor() *authoring.Editor {
	n := 0
	return authoring.New(authoring.Config{NewID: func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}})
}

func emptyModule() content.Module {
	return content.Module{ID: "m1", CourseID: "c1", Status: content.ModuleDraft, PassingScore: 80, Blocks: []content.Block{}}
}

func TestAddBlock_Defaults(t *testing.T) {
	tests := []struct {
		name string
		typ  content.BlockType
		hint string
		want content.BlockData
	}{
		{"heading", content.BlockHeading, "", content.HeadingData{}},
		{"text", content.BlockText, "", content.TextData{Variant: content.TextParagraph}},
		{"callout", content.BlockText, authoring.HintCallout, content.TextData{Content: "Enter alert content...", Variant: content.TextCalloutWarning}},
		{"image", content.BlockImage, "", content.ImageData{}},
		{"video", content.BlockVideo, "", content.VideoData{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor()
			m, b, err := e.AddBlock(emptyModule(), tt.typ, tt.hint)
			if err != nil {
				t.Fatalf("AddBlock() error = %v", err)
			}
			if b.Data != tt.want {
				t.Errorf("Data = %#v, want %#v", b.Data, tt.want)
			}
			if !b.Required {
				t.Error("Required = false, want true")
			}
			if b.ModuleID != "m1" || b.ID != "id-1" {
				t.Errorf("block = %+v, want id-1 in m1", b)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestAddBlock_Quiz(t *testing.T) {
	e := newEditor()
	m, b, err := e.AddBlock(emptyModule(), content.BlockQuiz, "")
	if err != nil {
		t.Fatalf("AddBlock() error = %v", err)
	}
	quiz, ok := b.Quiz()
	if !ok {
		t.Fatalf("Data = %#v, want quiz", b.Data)
	}
	if quiz.Title != "New Assessment" || quiz.PassingScore != 80 || len(quiz.Questions) != 0 {
		t.Errorf("quiz = %+v, want New Assessment/80/no questions", quiz)
	}
	if !m.HasQuiz() {
		t.Error("module should have a quiz")
	}
}

func TestAddBlock_DoesNotMutateInput(t *testing.T) {
	e := newEditor()
	in := emptyModule()
	out, _, err := e.AddBlock(in, content.BlockChecklist, "")
	if err != nil {
		t.Fatalf("AddBlock() error = %v", err)
	}
	if len(in.Blocks) != 0 {
		t.Errorf("input blocks = %d, want 0", len(in.Blocks))
	}
	if len(out.Blocks) != 1 {
		t.Errorf("output blocks = %d, want 1", len(out.Blocks))
	}
}

func TestAddBlock_UnknownType(t *testing.T) {
	_, _, err := newEditor().AddBlock(emptyModule(), "carousel", "")
	if !errors.Is(err, authoring.ErrUnknownBlockType) {
		t.Errorf("error = %v, want ErrUnknownBlockType", err)
	}
}

func TestUpdateBlockData(t *testing.T) {
	e := newEditor()
	m, b, _ := e.AddBlock(emptyModule(), content.BlockText, "")

	got, err := e.UpdateBlockData(m, b.ID, content.TextData{Content: "<b>Hi</b><script>x()</script>", Variant: content.TextCalloutInfo})
	if err != nil {
		t.Fatalf("UpdateBlockData() error = %v", err)
	}
	td := got.Blocks[0].Data.(content.TextData)
	if td.Content != "<b>Hi</b>" || td.Variant != content.TextCalloutInfo {
		t.Errorf("Data = %#v, want sanitised callout-info", td)
	}
	if m.Blocks[0].Data.(content.TextData).Content != "" {
		t.Error("UpdateBlockData() modified its input")
	}
	if !got.Blocks[0].Required || got.Blocks[0].ID != b.ID {
		t.Errorf("block = %+v, want identity and required kept", got.Blocks[0])
	}
}

func TestUpdateBlockData_Errors(t *testing.T) {
	e := newEditor()
	m, b, _ := e.AddBlock(emptyModule(), content.BlockQuiz, "")

	tests := []struct {
		name    string
		blockID string
		data    content.BlockData
		wantErr error
	}{
		{"missing block", "nope", content.QuizData{}, authoring.ErrBlockNotFound},
		{"type mismatch", b.ID, content.TextData{Content: "x"}, authoring.ErrBlockTypeMismatch},
		{"nil data", b.ID, nil, content.ErrInvalidDocument},
		{"invalid quiz", b.ID, content.QuizData{PassingScore: 120}, content.ErrInvalidDocument},
		{"invalid question", b.ID, content.QuizData{Questions: []content.Question{{ID: "q", Kind: content.Matching{}}}}, content.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.UpdateBlockData(m, tt.blockID, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got.Blocks[0].Type() != content.BlockQuiz {
				t.Errorf("block type = %s, want unchanged quiz", got.Blocks[0].Type())
			}
		})
	}
}

func TestDeleteBlock(t *testing.T) {
	e := newEditor()
	m := emptyModule()
	m, first, _ := e.AddBlock(m, content.BlockHeading, "")
	m, second, _ := e.AddBlock(m, content.BlockText, "")

	got, err := e.DeleteBlock(m, first.ID)
	if err != nil {
		t.Fatalf("DeleteBlock() error = %v", err)
	}
	if len(got.Blocks) != 1 || got.Blocks[0].ID != second.ID {
		t.Errorf("blocks = %+v, want only %s", got.Blocks, second.ID)
	}
	if len(m.Blocks) != 2 {
		t.Errorf("input blocks = %d, want 2", len(m.Blocks))
	}

	if _, err := e.DeleteBlock(got, first.ID); !errors.Is(err, authoring.ErrBlockNotFound) {
		t.Errorf("second delete error = %v, want ErrBlockNotFound", err)
	}
}

func TestMoveBlock(t *testing.T) {
	e := newEditor()
	m := emptyModule()
	for _, typ := range []content.BlockType{content.BlockHeading, content.BlockText, content.BlockImage} {
		m, _, _ = e.AddBlock(m, typ, "")
	}

	tests := []struct {
		name    string
		blockID string
		index   int
		want    []string
	}{
		{"to front", "id-3", 0, []string{"id-3", "id-1", "id-2"}},
		{"to end", "id-1", 2, []string{"id-2", "id-3", "id-1"}},
		{"clamped", "id-1", 99, []string{"id-2", "id-3", "id-1"}},
		{"negative", "id-2", -4, []string{"id-2", "id-1", "id-3"}},
		{"same place", "id-2", 1, []string{"id-1", "id-2", "id-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.MoveBlock(m, tt.blockID, tt.index)
			if err != nil {
				t.Fatalf("MoveBlock() error = %v", err)
			}
			for i, id := range tt.want {
				if got.Blocks[i].ID != id {
					t.Errorf("Blocks[%d] = %s, want %s", i, got.Blocks[i].ID, id)
				}
			}
			if m.Blocks[0].ID != "id-1" {
				t.Error("MoveBlock() modified its input")
			}
		})
	}
}

func TestSetRequired(t *testing.T) {
	e := newEditor()
	m, b, _ := e.AddBlock(emptyModule(), content.BlockVideo, "")

	got, err := e.SetRequired(m, b.ID, false)
	if err != nil {
		t.Fatalf("SetRequired() error = %v", err)
	}
	if got.Blocks[0].Required {
		t.Error("Required = true, want false")
	}
	if !m.Blocks[0].Required {
		t.Error("SetRequired() modified its input")
	}
	if _, err := e.SetRequired(m, "nope", true); !errors.Is(err, authoring.ErrBlockNotFound) {
		t.Errorf("error = %v, want ErrBlockNotFound", err)
	}
}
