package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/course.schema.json
var courseSchemaJSON []byte

var (
	schemaOnce   sync.Once
	courseSchema *gojsonschema.Schema
	moduleSchema *gojsonschema.Schema
	schemaErr    error
)

func loadSchemas() error {
	schemaOnce.Do(func() {
		var doc map[string]any
		if err := json.Unmarshal(courseSchemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("parsing course schema: %w", err)
			return
		}
		courseSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling course schema: %w", schemaErr)
			return
		}

		// Same definitions, rooted at a single module.
		mod := maps.Clone(doc)
		mod["$ref"] = "#/definitions/module"
		mod["title"] = "Module document"
		moduleSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(mod))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling module schema: %w", schemaErr)
		}
	})
	return schemaErr
}

func checkSchema(s *gojsonschema.Schema, raw []byte) error {
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// DecodeCourse parses an untrusted course document. The raw JSON is checked
// against the course schema, decoded strictly, and validated.
func DecodeCourse(raw []byte) (Course, error) {
	if err := loadSchemas(); err != nil {
		return Course{}, err
	}
	if err := checkSchema(courseSchema, raw); err != nil {
		return Course{}, err
	}
	var c Course
	if err := decodeStrict(raw, &c); err != nil {
		return Course{}, fmt.Errorf("%w: course: %v", ErrInvalidDocument, err)
	}
	if err := c.Validate(); err != nil {
		return Course{}, err
	}
	return c, nil
}

// DecodeModule parses an untrusted module document.
func DecodeModule(raw []byte) (Module, error) {
	if err := loadSchemas(); err != nil {
		return Module{}, err
	}
	if err := checkSchema(moduleSchema, raw); err != nil {
		return Module{}, err
	}
	var m Module
	if err := decodeStrict(raw, &m); err != nil {
		return Module{}, fmt.Errorf("%w: module: %v", ErrInvalidDocument, err)
	}
	if err := m.Validate(); err != nil {
		return Module{}, err
	}
	return m, nil
}
