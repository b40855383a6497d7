package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is a learner's response to one question. The set of
// implementations is closed: Choice, Text and Matches.
type Answer interface {
	isAnswer()
}

// Choice is the selected option index of a multiple-choice or true-false
// question.
type Choice int

// Text is a typed response to a fill-blank or short-answer question.
type Text string

// Matches holds the right-hand values chosen for each matching pair, in
// pair order.
type Matches []string

func (Choice) isAnswer()  {}
func (Text) isAnswer()    {}
func (Matches) isAnswer() {}

// Answers maps a quiz block ID to one answer slot per question, aligned by
// question index. A nil slot, or a slot past the end of the slice, is
// unanswered.
type Answers map[string][]Answer

// Slot returns the answer recorded for the question at index i of the
// block, or nil.
func (a Answers) Slot(blockID string, i int) Answer {
	slots := a[blockID]
	if i < 0 || i >= len(slots) {
		return nil
	}
	return slots[i]
}

// Set returns a copy of the answers with the slot at index i of the block
// replaced.
func (a Answers) Set(blockID string, i int, ans Answer) Answers {
	out := make(Answers, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	slots := append([]Answer(nil), a[blockID]...)
	for len(slots) <= i {
		slots = append(slots, nil)
	}
	slots[i] = ans
	out[blockID] = slots
	return out
}

// UnmarshalJSON decodes numbers as Choice, strings as Text, string arrays
// as Matches and null as an unanswered slot.
func (a *Answers) UnmarshalJSON(raw []byte) error {
	var wire map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}

	out := make(Answers, len(wire))
	for blockID, slots := range wire {
		decoded := make([]Answer, len(slots))
		for i, s := range slots {
			ans, err := decodeAnswer(s)
			if err != nil {
				return fmt.Errorf("decode answers: block %s slot %d: %w", blockID, i, err)
			}
			decoded[i] = ans
		}
		out[blockID] = decoded
	}
	*a = out
	return nil
}

func decodeAnswer(raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch c := raw[0]; {
	case c == 'n':
		return nil, nil
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case c == '[':
		var items []*string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("matching answer must be an array of strings: %w", err)
		}
		m := make(Matches, len(items))
		for i, it := range items {
			if it != nil {
				m[i] = *it
			}
		}
		return m, nil
	case c == '-' || (c >= '0' && c <= '9'):
		n, err := strconv.Atoi(string(raw))
		if err != nil {
			return nil, fmt.Errorf("choice must be an integer, got %s", raw)
		}
		return Choice(n), nil
	default:
		return nil, fmt.Errorf("unsupported answer %s", raw)
	}
}
