package model

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var ResumeSchema string

//go:embed portfolio.schema.json
var DocumentSchema string

var documentSchema = mustSchema("portfolio", DocumentSchema)

func mustSchema(name, src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("model: %s schema: %v", name, err))
	}
	return s
}

// ValidateDocument checks raw JSON against portfolio.schema.json.
func ValidateDocument(raw []byte) error {
	if !json.Valid(raw) {
		return fmt.Errorf("portfolio document is not valid JSON")
	}
	res, err := documentSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
