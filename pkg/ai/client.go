package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craftfolio/pkg/logger"

	"google.golang.org/genai"
)

// Model is the generative text-and-vision collaborator every pipeline stage
// talks to. Implementations return the model's raw text; callers treat it as
// untrusted and clean it before parsing.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Prompt string
	// Image is sent inline before the prompt when set.
	Image *InlineImage
	// Temperature overrides the client default when set.
	Temperature *float32
}

// InlineImage is a decoded data URI.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Temperature is a convenience for Request.Temperature.
func Temperature(t float32) *float32 {
	return &t
}

// GeminiClient calls the Gemini API through google.golang.org/genai.
// No retries are performed; a failed call surfaces immediately.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model, temperature: float32(temperature)}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := c.temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(temp)}

	start := time.Now()
	logger.Log.Debug("ai.client: generate",
		"model", c.model,
		"prompt_chars", len(req.Prompt),
		"has_image", req.Image != nil,
	)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	logger.Log.Debug("ai.client: response",
		"model", c.model,
		"response_chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
