// Package content defines the curriculum document model: courses own
// modules, modules own an ordered list of content blocks, and quiz blocks
// own an ordered list of questions.
//
// Block payloads and question shapes are closed sum types. A Block carries
// exactly one BlockData variant and its type is derived from that variant,
// so the discriminant and the payload cannot disagree once a value has been
// constructed. Documents are edited by whole-value replacement only.
package content

import (
	"github.com/shopspring/decimal"
)

// Category classifies a course in the catalog.
type Category string

const (
	CategoryHospice        Category = "hospice"
	CategoryCompliance     Category = "compliance"
	CategoryClinicalSkills Category = "clinical_skills"
)

// CourseStatus is the publication state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
)

// ModuleStatus is the lifecycle state of a module.
type ModuleStatus string

const (
	ModuleDraft     ModuleStatus = "draft"
	ModulePublished ModuleStatus = "published"
	ModuleArchived  ModuleStatus = "archived"
)

// Course is the top-level curriculum document.
type Course struct {
	ID           string          `json:"id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	Category     Category        `json:"category" validate:"oneof=hospice compliance clinical_skills"`
	CECredits    decimal.Decimal `json:"ceCredits" validate:"-"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	Status       CourseStatus    `json:"status" validate:"oneof=draft published"`
	Modules      []Module        `json:"modules" validate:"-"`
}

// Module returns the module with the given ID.
func (c Course) Module(id string) (Module, int, bool) {
	for i, m := range c.Modules {
		if m.ID == id {
			return m, i, true
		}
	}
	return Module{}, -1, false
}

// Published reports whether learners can see the course.
func (c Course) Published() bool {
	return c.Status == CoursePublished
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	if c.Modules != nil {
		out.Modules = make([]Module, len(c.Modules))
		for i, m := range c.Modules {
			out.Modules[i] = m.Clone()
		}
	}
	return out
}

// Module is an ordered sequence of content blocks. Block order is the slice
// order; there is no stored position to reconcile.
type Module struct {
	ID               string       `json:"id" validate:"required"`
	CourseID         string       `json:"courseId" validate:"required"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Status           ModuleStatus `json:"status" validate:"oneof=draft published archived"`
	PassingScore     int          `json:"passingScore" validate:"min=0,max=100"`
	EstimatedMinutes int          `json:"estimatedMinutes" validate:"min=0"`
	Blocks           []Block      `json:"blocks" validate:"-"`
}

// Block returns the block with the given ID and its position.
func (m Module) Block(id string) (Block, int, bool) {
	for i, b := range m.Blocks {
		if b.ID == id {
			return b, i, true
		}
	}
	return Block{}, -1, false
}

// HasQuiz reports whether any block in the module is a quiz.
func (m Module) HasQuiz() bool {
	for _, b := range m.Blocks {
		if _, ok := b.Data.(QuizData); ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the module.
func (m Module) Clone() Module {
	out := m
	if m.Blocks != nil {
		out.Blocks = make([]Block, len(m.Blocks))
		for i, b := range m.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	return out
}

// BlockType is the discriminant of a content block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockText      BlockType = "text"
	BlockImage     BlockType = "image"
	BlockVideo     BlockType = "video"
	BlockQuiz      BlockType = "quiz"
	BlockChecklist BlockType = "checklist"
)

// BlockTypes lists every block type in authoring-menu order.
var BlockTypes = []BlockType{BlockHeading, BlockText, BlockImage, BlockVideo, BlockQuiz, BlockChecklist}

// BlockData is the payload of a content block. The set of implementations
// is closed: HeadingData, TextData, ImageData, VideoData, QuizData and
// ChecklistData.
type BlockData interface {
	BlockType() BlockType
	cloneData() BlockData
	validate() error
}

// Block is one entry in a module's content sequence.
type Block struct {
	ID       string    `validate:"required"`
	ModuleID string    `validate:"required"`
	Required bool      `validate:"-"`
	Data     BlockData `validate:"-"`
}

// Type returns the discriminant of the block's payload.
func (b Block) Type() BlockType {
	if b.Data == nil {
		return ""
	}
	return b.Data.BlockType()
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	if b.Data != nil {
		out.Data = b.Data.cloneData()
	}
	return out
}

// Quiz returns the block's quiz payload when the block is a quiz.
func (b Block) Quiz() (QuizData, bool) {
	q, ok := b.Data.(QuizData)
	return q, ok
}

// HeadingData is a section heading.
type HeadingData struct {
	Content string `json:"content"`
}

func (HeadingData) BlockType() BlockType   { return BlockHeading }
func (d HeadingData) cloneData() BlockData { return d }

// TextVariant selects how a text block is rendered.
type TextVariant string

const (
	TextParagraph       TextVariant = "paragraph"
	TextCalloutInfo     TextVariant = "callout-info"
	TextCalloutWarning  TextVariant = "callout-warning"
	TextCalloutCritical TextVariant = "callout-critical"
)

// TextData is rich text, optionally rendered as a callout.
type TextData struct {
	Content string      `json:"content"`
	Variant TextVariant `json:"variant,omitempty" validate:"omitempty,oneof=paragraph callout-info callout-warning callout-critical"`
}

func (TextData) BlockType() BlockType   { return BlockText }
func (d TextData) cloneData() BlockData { return d }

// ImageData is an image reference. Alt text is recommended but optional.
type ImageData struct {
	URL     string `json:"url" validate:"omitempty,url"`
	Caption string `json:"caption,omitempty"`
	AltText string `json:"altText,omitempty"`
}

func (ImageData) BlockType() BlockType   { return BlockImage }
func (d ImageData) cloneData() BlockData { return d }

// VideoData is a video reference with its running time in seconds.
type VideoData struct {
	URL             string `json:"url" validate:"omitempty,url"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration" validate:"min=0"`
	Transcript      string `json:"transcript,omitempty"`
}

func (VideoData) BlockType() BlockType   { return BlockVideo }
func (d VideoData) cloneData() BlockData { return d }

// QuizData is an assessment made of ordered questions.
type QuizData struct {
	Title        string     `json:"title"`
	Questions    []Question `json:"questions" validate:"-"`
	PassingScore int        `json:"passingScore" validate:"min=0,max=100"`
}

func (QuizData) BlockType() BlockType { return BlockQuiz }

func (d QuizData) cloneData() BlockData { return d.Clone() }

// Clone returns a deep copy of the quiz.
func (d QuizData) Clone() QuizData {
	out := d
	if d.Questions != nil {
		out.Questions = make([]Question, len(d.Questions))
		for i, q := range d.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// ChecklistData is a list of items a learner ticks off.
type ChecklistData struct {
	Items []string `json:"items"`
}

func (ChecklistData) BlockType() BlockType { return BlockChecklist }

func (d ChecklistData) cloneData() BlockData {
	if d.Items != nil {
		d.Items = append([]string(nil), d.Items...)
	}
	return d
}
