package content

import (
	"github.com/microcosm-cc/bluemonday"
)

var richText = bluemonday.UGCPolicy()

// SanitizeHTML strips markup that is unsafe to render from rich text.
func SanitizeHTML(s string) string {
	if s == "" {
		return ""
	}
	return richText.Sanitize(s)
}

// Sanitize returns a copy of the module with rich text block content
// sanitised. Other payloads are returned unchanged.
func (m Module) Sanitize() Module {
	out := m.Clone()
	for i, b := range out.Blocks {
		if t, ok := b.Data.(TextData); ok {
			t.Content = SanitizeHTML(t.Content)
			out.Blocks[i].Data = t
		}
	}
	return out
}
