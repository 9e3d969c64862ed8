package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ParseDataURI decodes "data:<mime>;base64,<payload>" into an inline image.
// Images and PDFs are accepted, which is what the vision model reads inline.
func ParseDataURI(uri string) (*InlineImage, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "data:") {
		return nil, errors.New("not a data URI")
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, errors.New("data URI has no payload")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, errors.New("data URI is not base64 encoded")
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, fmt.Errorf("unsupported media type %q", mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("data URI payload is empty")
	}
	return &InlineImage{MIMEType: mimeType, Data: data}, nil
}
