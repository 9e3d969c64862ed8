package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointSchema = `{
  "type": "object",
  "required": ["x", "y"],
  "properties": {
    "x": {"type": "integer"},
    "y": {"type": "integer"}
  }
}`

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestParseFencedOutput(t *testing.T) {
	p := MustNew("point", pointSchema)

	var got point
	err := p.Parse("```json\n{\"x\": 1, \"y\": 2}\n```", &got)
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, got)
}

func TestParseReportsSchemaViolations(t *testing.T) {
	p := MustNew("point", pointSchema)

	var got point
	err := p.Parse(`{"x": "one"}`, &got)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
	assert.Equal(t, point{}, got)
}

func TestParseRejectsProse(t *testing.T) {
	p := MustNew("point", pointSchema)
	var got point
	assert.Error(t, p.Parse("Sorry, I can't help with that.", &got))
}

func TestFormatInstructionsEmbedSchema(t *testing.T) {
	p := MustNew("point", pointSchema)
	assert.Contains(t, p.FormatInstructions(), `"required": ["x", "y"]`)
}

func TestNewRejectsBrokenSchema(t *testing.T) {
	_, err := New("broken", `{"type": 12}`)
	assert.Error(t, err)
}
