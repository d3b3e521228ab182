// Package schemas validates transport command payloads against embedded JSON Schemas.
package schemas

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed commands/*.json
var commandFS embed.FS

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in one payload.
type ValidationError struct {
	Command string
	Errors  []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Command, strings.Join(parts, "; "))
}

var (
	loadOnce sync.Once
	compiled map[string]*gojsonschema.Schema
	loadErr  error
)

func load() {
	compiled = map[string]*gojsonschema.Schema{}
	entries, err := commandFS.ReadDir("commands")
	if err != nil {
		loadErr = err
		return
	}
	for _, e := range entries {
		raw, err := commandFS.ReadFile("commands/" + e.Name())
		if err != nil {
			loadErr = err
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			loadErr = fmt.Errorf("compiling schema %s: %w", e.Name(), err)
			return
		}
		compiled[strings.TrimSuffix(e.Name(), ".json")] = schema
	}
}

// Commands returns the command types with a schema, sorted.
func Commands() []string {
	loadOnce.Do(load)
	out := make([]string, 0, len(compiled))
	for name := range compiled {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether command has a schema.
func Known(command string) bool {
	loadOnce.Do(load)
	_, ok := compiled[command]
	return ok
}

// Validate checks payload against the schema for command. An empty payload is
// treated as an empty object.
func Validate(command string, payload []byte) error {
	loadOnce.Do(load)
	if loadErr != nil {
		return loadErr
	}
	schema, ok := compiled[command]
	if !ok {
		return fmt.Errorf("unknown command type %q", command)
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		payload = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("validating %s payload: %w", command, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Command: command, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
