// Package importer reads task lists previously written by export (or by the
// browser version's "Export" button) and checks them before they replace
// the current list.
package importer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/storage"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "todo://tasks.schema.json"

// ErrDuplicateID is returned when two tasks in a document share an id.
var ErrDuplicateID = errors.New("duplicate task id")

// Issue is one problem found in an import document.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// SchemaError lists every schema violation in a document.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "invalid task file: " + strings.Join(parts, "; ")
}

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("importer: add schema: %v", err))
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("importer: compile schema: %v", err))
	}
	return s
}

// Parse reads a JSON task list from r.
func Parse(r io.Reader) ([]storage.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes validates data against the task file schema, decodes it, and
// rejects duplicate ids. Missing priorities decode as low.
func ParseBytes(data []byte) ([]storage.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	tasks, err := storage.DecodeTasks(data)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		if j, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("[%d] and [%d]: %w %d", j, i, ErrDuplicateID, t.ID)
		}
		seen[t.ID] = i
	}
	return tasks, nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &SchemaError{}
	collect(out, ve)
	return out
}

func collect(out *SchemaError, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		out.Issues = append(out.Issues, Issue{Path: pointerToPath(ve.InstanceLocation), Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collect(out, cause)
	}
}

// pointerToPath turns a JSON pointer such as /1/priority into [1].priority.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Summary describes what an import would do to the current list.
type Summary struct {
	Incoming  int
	Completed int
	Replaced  int
}

// Summarize compares the incoming list with the current one.
func Summarize(current, incoming []storage.Task) Summary {
	s := Summary{Incoming: len(incoming), Replaced: len(current)}
	for _, t := range incoming {
		if t.Completed {
			s.Completed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tasks (%d completed) will replace the current %d", s.Incoming, s.Completed, s.Replaced)
}
