// Package structured turns raw model text into typed values that have been
// checked against a JSON Schema before anything reads them.
package structured

import (
	"encoding/json"
	"fmt"
	"strings"

	"craftfolio/pkg/ai"

	"github.com/xeipuuv/gojsonschema"
)

// Parser validates model output against one JSON Schema.
type Parser struct {
	name   string
	schema string
	loaded *gojsonschema.Schema
}

// ValidationError lists every schema violation found in one document.
type ValidationError struct {
	Parser     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: schema validation failed: %s", e.Parser, strings.Join(e.Violations, "; "))
}

func New(name, schema string) (*Parser, error) {
	loaded, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid schema: %w", name, err)
	}
	return &Parser{name: name, schema: schema, loaded: loaded}, nil
}

// MustNew is New for schemas compiled into the binary.
func MustNew(name, schema string) *Parser {
	p, err := New(name, schema)
	if err != nil {
		panic(err)
	}
	return p
}

// FormatInstructions describes the expected output for inclusion in a prompt.
func (p *Parser) FormatInstructions() string {
	return "The output must be a single JSON object that conforms to the JSON schema below. " +
		"Return only the JSON object: no markdown fences, no explanations, no trailing text.\n\n" +
		"```json\n" + p.schema + "\n```"
}

// Parse cleans raw (fences, surrounding prose), validates the JSON object it
// contains and decodes it into out.
func (p *Parser) Parse(raw string, out any) error {
	body := ai.CleanJSONObject(raw)
	if !json.Valid([]byte(body)) {
		return fmt.Errorf("%s: output is not valid JSON", p.name)
	}
	if err := p.Validate([]byte(body)); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%s: decode: %w", p.name, err)
	}
	return nil
}

// Validate checks an already isolated JSON document.
func (p *Parser) Validate(doc []byte) error {
	res, err := p.loaded.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{Parser: p.name}
	for _, e := range res.Errors() {
		verr.Violations = append(verr.Violations, e.String())
	}
	return verr
}
