package ai

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

	img, err := ParseDataURI("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, []byte("\x89PNG fake"), img.Data)

	pdf, err := ParseDataURI("data:application/pdf;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.MIMEType)
}

func TestParseDataURIRejects(t *testing.T) {
	cases := map[string]string{
		"raw base64":     "aGVsbG8=",
		"no payload":     "data:image/png;base64",
		"not base64":     "data:image/png,hello",
		"wrong media":    "data:text/plain;base64,aGVsbG8=",
		"corrupt base64": "data:image/png;base64,@@@",
		"empty payload":  "data:image/png;base64,",
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(uri)
			assert.Error(t, err)
		})
	}
}
