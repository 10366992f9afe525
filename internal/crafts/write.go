package crafts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/craft_recipes.schema.json
var documentSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("craft_recipes.schema.json", documentSchemaJSON)
	})
	return schema, schemaErr
}

// Marshal renders doc with two-space indentation, literal non-ASCII and HTML
// characters, and no trailing newline.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

var (
	escLS = []byte(`\u2028`)
	escPS = []byte(`\u2029`)
	rawLS = []byte("\u2028")
	rawPS = []byte("\u2029")
)

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into literal characters. Escaped backslashes are skipped
// so a literal `\\u2028` in a string is left alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, escLS[:5]) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		rest := b[i:]
		switch {
		case bytes.HasPrefix(rest, escLS):
			out = append(out, rawLS...)
			i += len(escLS) - 1
		case bytes.HasPrefix(rest, escPS):
			out = append(out, rawPS...)
			i += len(escPS) - 1
		default:
			out = append(out, b[i], b[i+1])
			i++
		}
	}
	return out
}

// ValidateDocument checks rendered document bytes against the embedded schema.
func ValidateDocument(b []byte) error {
	s, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return s.Validate(v)
}

// Write renders doc and writes it to path, creating parent directories and
// replacing any existing file.
func Write(path string, doc *Document, validate bool) error {
	b, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if validate {
		if err := ValidateDocument(b); err != nil {
			return fmt.Errorf("validate document: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
