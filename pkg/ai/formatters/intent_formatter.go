package formatters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"craftfolio/internal/domain"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/ai/structured"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/logger"
)

const changesSchema = `{
  "type": "object",
  "required": ["changes"],
  "properties": {
    "changes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["intent", "sectionName", "value"],
        "properties": {
          "intent": {"type": "string", "minLength": 1, "description": "what to do, e.g. update, shorten, add, remove"},
          "sectionName": {"type": "string", "minLength": 1, "description": "portfolio section or field the change targets, e.g. hero.name"},
          "value": {"type": "string", "description": "the complete, final value to apply"}
        }
      }
    }
  }
}`

// DefaultMemoryWindow is how many prior messages are shown to the model.
const DefaultMemoryWindow = 10

// IntentFormatter decomposes one chat message into the list of edits it asks
// for.
type IntentFormatter struct {
	model        ai.Model
	parser       *structured.Parser
	memoryWindow int
}

func NewIntentFormatter(m ai.Model, memoryWindow int) *IntentFormatter {
	if memoryWindow <= 0 {
		memoryWindow = DefaultMemoryWindow
	}
	return &IntentFormatter{
		model:        m,
		parser:       structured.MustNew("changes", changesSchema),
		memoryWindow: memoryWindow,
	}
}

// Resolve returns every change requested by input. A response that fails
// schema validation fails the whole request; no partial list is salvaged.
func (f *IntentFormatter) Resolve(ctx context.Context, doc domain.Document, input string, memory []domain.MessageMemory) ([]domain.Change, error) {
	prompt, err := f.prompt(doc, input, memory)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	raw, err := f.model.Generate(ctx, ai.Request{Prompt: prompt})
	if err != nil {
		return nil, apperror.UpstreamModel(err)
	}

	var out struct {
		Changes []domain.Change `json:"changes"`
	}
	if err := f.parser.Parse(raw, &out); err != nil {
		logger.Log.Warn("intent_formatter: invalid changes", "error", err)
		return nil, apperror.IntentParse(raw, err)
	}
	logger.Log.Debug("intent_formatter: resolved", "changes", len(out.Changes))
	return out.Changes, nil
}

func (f *IntentFormatter) prompt(doc domain.Document, input string, memory []domain.MessageMemory) (string, error) {
	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal portfolio: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You edit a portfolio website described by the JSON document below.\n\n")

	if history := f.recent(memory); len(history) > 0 {
		sb.WriteString("Previous messages from the user, oldest first. Use them to resolve references such as \"it\" or \"more\":\n")
		for i, m := range history {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, m.Text)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Current request: %q\n\n", input)
	sb.WriteString("Current portfolio:\n")
	sb.Write(docJSON)
	sb.WriteString("\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Extract ALL distinct edits in the request, one entry per edit, in the order they were asked.\n")
	sb.WriteString("- sectionName names the section (and field when clear) the edit targets, using the section types in the document.\n")
	sb.WriteString("- value is the complete final value. If the user gives no explicit value (for example \"shorten my summary\"), write the new value yourself now, concrete and ready to use.\n")
	sb.WriteString("- Never use placeholder text in value.\n")
	sb.WriteString("- If the request asks for no edit, return an empty changes array.\n\n")
	sb.WriteString(f.parser.FormatInstructions())
	return sb.String(), nil
}

// recent keeps the newest messages that fit the memory window.
func (f *IntentFormatter) recent(memory []domain.MessageMemory) []domain.MessageMemory {
	kept := make([]domain.MessageMemory, 0, len(memory))
	for _, m := range memory {
		if strings.TrimSpace(m.Text) != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) > f.memoryWindow {
		kept = kept[len(kept)-f.memoryWindow:]
	}
	return kept
}
