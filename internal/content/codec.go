package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type blockWire struct {
	ID       string          `json:"id"`
	ModuleID string          `json:"moduleId"`
	Type     BlockType       `json:"type"`
	Required bool            `json:"required"`
	Data     json.RawMessage `json:"data"`
}

// MarshalJSON writes the block with its type discriminant.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Data == nil {
		return nil, fmt.Errorf("marshal block %s: missing data", b.ID)
	}
	data, err := json.Marshal(b.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal block %s data: %w", b.ID, err)
	}
	return json.Marshal(blockWire{
		ID:       b.ID,
		ModuleID: b.ModuleID,
		Type:     b.Type(),
		Required: b.Required,
		Data:     data,
	})
}

// UnmarshalJSON decodes the payload into the variant named by "type" and
// rejects payload fields that variant does not have.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var w blockWire
	if err := decodeStrict(raw, &w); err != nil {
		return fmt.Errorf("%w: block: %v", ErrInvalidDocument, err)
	}
	data, err := DecodeBlockData(w.Type, w.Data)
	if err != nil {
		return fmt.Errorf("block %s: %w", w.ID, err)
	}
	*b = Block{
		ID:       w.ID,
		ModuleID: w.ModuleID,
		Required: w.Required,
		Data:     data,
	}
	return nil
}

// DecodeBlockData decodes a raw payload for the given block type.
func DecodeBlockData(t BlockType, raw json.RawMessage) (BlockData, error) {
	switch t {
	case BlockHeading:
		return decodeData[HeadingData](t, raw)
	case BlockText:
		return decodeData[TextData](t, raw)
	case BlockImage:
		return decodeData[ImageData](t, raw)
	case BlockVideo:
		return decodeData[VideoData](t, raw)
	case BlockQuiz:
		return decodeData[QuizData](t, raw)
	case BlockChecklist:
		return decodeData[ChecklistData](t, raw)
	default:
		return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidDocument, t)
	}
}

func decodeData[T BlockData](t BlockType, raw json.RawMessage) (BlockData, error) {
	var v T
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: %s block has no data", ErrInvalidDocument, t)
	}
	if err := decodeStrict(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: data does not match %s block: %v", ErrInvalidDocument, t, err)
	}
	return v, nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type questionWire struct {
	ID            string          `json:"id"`
	Type          QuestionType    `json:"type"`
	Question      string          `json:"question"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer,omitempty"`
	MatchingPairs []MatchingPair  `json:"matchingPairs,omitempty"`
	Points        int             `json:"points"`
}

// MarshalJSON writes the question in the flat wire shape shared by all
// question types.
func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:       q.ID,
		Type:     q.Type(),
		Question: q.Prompt,
		Points:   q.Points,
	}

	var correct any
	switch k := q.Kind.(type) {
	case MultipleChoice:
		w.Options = k.Options
		correct = k.Correct
	case TrueFalse:
		w.Options = TrueFalseOptions
		correct = k.Correct
	case FillBlank:
		correct = k.Answer
	case ShortAnswer:
		correct = k.Guidance
	case Matching:
		w.MatchingPairs = k.Pairs
	case nil:
		return nil, fmt.Errorf("marshal question %s: missing type", q.ID)
	default:
		return nil, fmt.Errorf("marshal question %s: unsupported kind %T", q.ID, k)
	}
	if correct != nil {
		raw, err := json.Marshal(correct)
		if err != nil {
			return nil, fmt.Errorf("marshal question %s: %w", q.ID, err)
		}
		w.CorrectAnswer = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat wire shape into the variant named by
// "type". Fields another type would use (left behind when an author
// switches a question's type) are ignored; fields this type needs are
// required.
func (q *Question) UnmarshalJSON(raw []byte) error {
	var w questionWire
	if err := decodeStrict(raw, &w); err != nil {
		return fmt.Errorf("%w: question: %v", ErrInvalidDocument, err)
	}

	var kind QuestionKind
	switch w.Type {
	case QuestionMultipleChoice:
		var idx int
		if err := decodeCorrect(w, &idx); err != nil {
			return err
		}
		kind = MultipleChoice{Options: w.Options, Correct: idx}
	case QuestionTrueFalse:
		var idx int
		if err := decodeCorrect(w, &idx); err != nil {
			return err
		}
		kind = TrueFalse{Correct: idx}
	case QuestionFillBlank:
		var s string
		if err := decodeCorrect(w, &s); err != nil {
			return err
		}
		kind = FillBlank{Answer: s}
	case QuestionShortAnswer:
		var s string
		if err := decodeCorrect(w, &s); err != nil {
			return err
		}
		kind = ShortAnswer{Guidance: s}
	case QuestionMatching:
		if len(w.MatchingPairs) == 0 {
			return fmt.Errorf("%w: matching question %s has no matchingPairs", ErrInvalidDocument, w.ID)
		}
		kind = Matching{Pairs: w.MatchingPairs}
	default:
		return fmt.Errorf("%w: question %s: unknown type %q", ErrInvalidDocument, w.ID, w.Type)
	}

	*q = Question{
		ID:     w.ID,
		Prompt: w.Question,
		Points: w.Points,
		Kind:   kind,
	}
	return nil
}

func decodeCorrect(w questionWire, dst any) error {
	if len(w.CorrectAnswer) == 0 {
		return fmt.Errorf("%w: %s question %s has no correctAnswer", ErrInvalidDocument, w.Type, w.ID)
	}
	if err := json.Unmarshal(w.CorrectAnswer, dst); err != nil {
		return fmt.Errorf("%w: %s question %s: correctAnswer: %v", ErrInvalidDocument, w.Type, w.ID, err)
	}
	return nil
}
