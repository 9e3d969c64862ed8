package formatters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"craftfolio/internal/domain"
	"craftfolio/internal/model"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/catalog"
	"craftfolio/pkg/logger"
)

// ForbiddenPlaceholders may never appear as a value in a patched document.
var ForbiddenPlaceholders = []string{
	"[Your text here]",
	"[Your Name]",
	"[Your summary here]",
	"placeholder",
	"Example project",
	"Project description goes here",
	"Lorem ipsum",
	"TBD",
}

// PlaceholderProjectImage is the image given to projects added through chat.
const PlaceholderProjectImage = "https://placehold.co/600x400/png?text=Project"

// PatchFormatter applies changes to a portfolio one model call at a time.
type PatchFormatter struct {
	model   ai.Model
	catalog *catalog.Catalog
}

func NewPatchFormatter(m ai.Model, cat *catalog.Catalog) *PatchFormatter {
	return &PatchFormatter{model: m, catalog: cat}
}

// Apply runs changes strictly in order, each against the result of the ones
// before it. The first failure aborts the turn with a PatchApplyError; changes
// applied before it are not undone, the returned error reports how many there
// were.
func (f *PatchFormatter) Apply(ctx context.Context, doc domain.Document, changes []domain.Change) (domain.Document, error) {
	current := doc
	for i, change := range changes {
		next, err := f.ApplyOne(ctx, current, change)
		if err != nil {
			if appErr := apperror.As(err); appErr.Kind == apperror.KindPatchApply {
				appErr.Applied = i
			}
			logger.Log.Warn("patch_formatter: change failed",
				"index", i,
				"section", change.SectionName,
				"applied", i,
				"error", err,
			)
			return nil, err
		}
		current = next
		logger.Log.Debug("patch_formatter: applied", "index", i, "section", change.SectionName)
	}
	return current, nil
}

// ApplyOne asks the model to rewrite the whole document with one change.
func (f *PatchFormatter) ApplyOne(ctx context.Context, doc domain.Document, change domain.Change) (domain.Document, error) {
	prompt, err := f.prompt(doc, change)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	raw, err := f.model.Generate(ctx, ai.Request{Prompt: prompt})
	if err != nil {
		return nil, apperror.UpstreamModel(err)
	}

	updated, err := ParseDocument(raw, doc)
	if err != nil {
		return nil, apperror.PatchApply(raw, 0, err)
	}
	return updated, nil
}

// ParseDocument strips Markdown fences (```json, then ```, else raw) and
// decodes a schema-valid portfolio document. A forbidden placeholder value is
// rejected unless it was already present in before, so a change never fails
// over content it did not touch.
func ParseDocument(raw string, before domain.Document) (domain.Document, error) {
	body := ai.StripCodeFences(raw)
	if err := model.ValidateDocument([]byte(body)); err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	existing := map[string]bool{}
	for _, s := range before {
		collectPlaceholders(s.Data, existing)
	}
	for _, s := range doc {
		if p, ok := findPlaceholder(s.Data, existing); ok {
			return nil, fmt.Errorf("section %q contains placeholder value %q", s.Type, p)
		}
	}
	return doc, nil
}

func (f *PatchFormatter) prompt(doc domain.Document, change domain.Change) (string, error) {
	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal portfolio: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You update a portfolio website stored as a JSON array of sections ({\"type\": ..., \"data\": {...}}).\n\n")
	sb.WriteString("Current portfolio:\n")
	sb.Write(docJSON)
	sb.WriteString("\n\nApply exactly this change:\n")
	fmt.Fprintf(&sb, "- intent: %s\n- sectionName: %s\n- value: %s\n\n", change.Intent, change.SectionName, change.Value)

	sb.WriteString("Constraints:\n")
	sb.WriteString("- Change only what the change asks for; keep every other section and field as it is.\n")
	sb.WriteString("- Write real, specific content. Never output any of these placeholder strings: ")
	for i, p := range ForbiddenPlaceholders {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", p)
	}
	sb.WriteString(".\n")

	if touchesSummary(change) {
		sb.WriteString("- This change concerns the summary. Set two distinct fields in the hero section: ")
		sb.WriteString("\"summary\" (2-3 sentences) and \"shortSummary\" (exactly 1 sentence).\n")
	}
	if touchesTech(change) {
		sb.WriteString("- When adding technologies to a tech stack or to technologies, choose only from this list and copy name and logo exactly:\n")
		sb.WriteString(f.catalog.PromptList())
	}
	if touchesProjects(change) {
		fmt.Fprintf(&sb, "- A newly added project uses this image URL: %s\n", PlaceholderProjectImage)
	}

	sb.WriteString("\nReturn the ENTIRE updated portfolio as a JSON array of sections and nothing else.")
	return sb.String(), nil
}

func changeText(c domain.Change) string {
	return strings.ToLower(c.Intent + " " + c.SectionName)
}

func touchesSummary(c domain.Change) bool {
	t := changeText(c)
	return strings.Contains(t, "summary") || strings.Contains(t, "bio") || strings.Contains(t, "about")
}

func touchesTech(c domain.Change) bool {
	t := changeText(c)
	for _, k := range []string{"tech", "skill", "stack"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func touchesProjects(c domain.Change) bool {
	return strings.Contains(changeText(c), "project")
}

// placeholderKey returns the normalized forbidden placeholder s matches
// (case-insensitive, surrounding space ignored).
func placeholderKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, p := range ForbiddenPlaceholders {
		if strings.EqualFold(s, p) {
			return strings.ToLower(p), true
		}
	}
	return "", false
}

// findPlaceholder walks a decoded JSON value for a forbidden placeholder that
// is not in allowed.
func findPlaceholder(v any, allowed map[string]bool) (string, bool) {
	switch t := v.(type) {
	case string:
		if key, ok := placeholderKey(t); ok && !allowed[key] {
			return t, true
		}
	case map[string]any:
		for _, child := range t {
			if p, ok := findPlaceholder(child, allowed); ok {
				return p, true
			}
		}
	case []any:
		for _, child := range t {
			if p, ok := findPlaceholder(child, allowed); ok {
				return p, true
			}
		}
	}
	return "", false
}

func collectPlaceholders(v any, into map[string]bool) {
	switch t := v.(type) {
	case string:
		if key, ok := placeholderKey(t); ok {
			into[key] = true
		}
	case map[string]any:
		for _, child := range t {
			collectPlaceholders(child, into)
		}
	case []any:
		for _, child := range t {
			collectPlaceholders(child, into)
		}
	}
}
