// Package authoring implements copy-on-write edits of curriculum
// documents. Every operation takes a document value and returns a new
// one; inputs are never modified.
package authoring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-lms/internal/content"
)

var (
	ErrBlockNotFound     = errors.New("block not found")
	ErrBlockTypeMismatch = errors.New("block type mismatch")
	ErrUnknownBlockType  = errors.New("unknown block type")
	ErrModuleNotFound    = errors.New("module not found")
	ErrQuestionNotFound  = errors.New("question not found")
)

// HintCallout asks AddBlock for a warning callout instead of a plain
// paragraph when adding a text block.
const HintCallout = "callout"

// Default payload values for new content.
const (
	DefaultQuizTitle      = "New Assessment"
	DefaultPassingScore   = 80
	DefaultCalloutContent = "Enter alert content..."
)

// Config configures an Editor.
type Config struct {
	// NewID generates block, question, course and module IDs.
	// Defaults to random UUIDs.
	NewID func() string
}

// Editor applies authoring operations.
type Editor struct {
	newID func() string
}

// New creates an Editor.
func New(cfg Config) *Editor {
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Editor{newID: cfg.NewID}
}

// AddBlock appends a block of the given type with default content and
// returns the new module and the added block.
func (e *Editor) AddBlock(m content.Module, t content.BlockType, hint string) (content.Module, content.Block, error) {
	data, err := defaultData(t, hint)
	if err != nil {
		return m, content.Block{}, err
	}

	b := content.Block{
		ID:       e.newID(),
		ModuleID: m.ID,
		Required: true,
		Data:     data,
	}
	out := m.Clone()
	out.Blocks = append(out.Blocks, b)
	return out, b.Clone(), nil
}

func defaultData(t content.BlockType, hint string) (content.BlockData, error) {
	switch t {
	case content.BlockHeading:
		return content.HeadingData{}, nil
	case content.BlockText:
		if hint == HintCallout {
			return content.TextData{Content: DefaultCalloutContent, Variant: content.TextCalloutWarning}, nil
		}
		return content.TextData{Variant: content.TextParagraph}, nil
	case content.BlockImage:
		return content.ImageData{}, nil
	case content.BlockVideo:
		return content.VideoData{}, nil
	case content.BlockQuiz:
		return content.QuizData{
			Title:        DefaultQuizTitle,
			PassingScore: DefaultPassingScore,
			Questions:    []content.Question{},
		}, nil
	case content.BlockChecklist:
		return content.ChecklistData{Items: []string{}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
}

// UpdateBlockData replaces a block's payload. The payload must have the
// block's type and be structurally valid. Rich text is sanitised.
func (e *Editor) UpdateBlockData(m content.Module, blockID string, data content.BlockData) (content.Module, error) {
	_, i, ok := m.Block(blockID)
	if !ok {
		return m, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if data == nil {
		return m, fmt.Errorf("%w: block %s: missing data", content.ErrInvalidDocument, blockID)
	}
	if got, want := data.BlockType(), m.Blocks[i].Type(); got != want {
		return m, fmt.Errorf("%w: block %s is %s, got %s data", ErrBlockTypeMismatch, blockID, want, got)
	}
	if err := content.ValidateData(data); err != nil {
		return m, fmt.Errorf("block %s: %w", blockID, err)
	}

	if td, ok := data.(content.TextData); ok {
		td.Content = content.SanitizeHTML(td.Content)
		data = td
	}

	out := m.Clone()
	out.Blocks[i] = content.Block{
		ID:       blockID,
		ModuleID: out.Blocks[i].ModuleID,
		Required: out.Blocks[i].Required,
		Data:     data,
	}.Clone()
	return out, nil
}

// DeleteBlock removes a block.
func (e *Editor) DeleteBlock(m content.Module, blockID string) (content.Module, error) {
	_, i, ok := m.Block(blockID)
	if !ok {
		return m, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	out := m.Clone()
	out.Blocks = slices.Delete(out.Blocks, i, i+1)
	return out, nil
}

// MoveBlock moves a block to position index, clamped to the block list.
func (e *Editor) MoveBlock(m content.Module, blockID string, index int) (content.Module, error) {
	_, i, ok := m.Block(blockID)
	if !ok {
		return m, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	out := m.Clone()
	b := out.Blocks[i]
	out.Blocks = slices.Delete(out.Blocks, i, i+1)
	index = max(0, min(index, len(out.Blocks)))
	out.Blocks = slices.Insert(out.Blocks, index, b)
	return out, nil
}

// SetRequired marks whether a learner must complete a block.
func (e *Editor) SetRequired(m content.Module, blockID string, required bool) (content.Module, error) {
	_, i, ok := m.Block(blockID)
	if !ok {
		return m, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	out := m.Clone()
	out.Blocks[i].Required = required
	return out, nil
}
