package curriculum

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File suffixes recognised by the loader.
const (
	CourseSuffix = ".course.yaml"
	NotesSuffix  = ".notes.md"
)

// yamlToJSON re-encodes a YAML document as JSON so it can go through the
// same schema check as API payloads.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode yaml as json: %w", err)
	}
	return out, nil
}
