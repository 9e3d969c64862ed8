package formatters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"craftfolio/internal/domain"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/apperror"
)

// FallbackReply is shown when the confirmation message cannot be composed.
const FallbackReply = "I've updated your portfolio with the requested changes."

// ReplyFormatter writes the short confirmation shown after a chat edit.
type ReplyFormatter struct {
	model ai.Model
}

func NewReplyFormatter(m ai.Model) *ReplyFormatter {
	return &ReplyFormatter{model: m}
}

// ChangeBullets lists changes the way the confirmation prompt expects them.
func ChangeBullets(changes []domain.Change) string {
	var sb strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&sb, "- Updated %s: %s with value \"%s\"\n", c.SectionName, c.Intent, c.Value)
	}
	return sb.String()
}

// Compose returns the confirmation text. Callers fall back to FallbackReply
// on any error, the document has already been updated at this point.
func (f *ReplyFormatter) Compose(ctx context.Context, input string, changes []domain.Change) (string, error) {
	prompt := "The user asked: " + fmt.Sprintf("%q", input) + "\n\n" +
		"These changes were applied to their portfolio:\n" + ChangeBullets(changes) + "\n" +
		"Write a friendly confirmation of 2-3 sentences that names what actually changed. " +
		"Do not use generic phrasing like \"I've updated your section\" and do not use placeholder text. " +
		"Return only the message text."

	raw, err := f.model.Generate(ctx, ai.Request{Prompt: prompt})
	if err != nil {
		return "", apperror.UpstreamModel(err)
	}
	reply := strings.Trim(strings.TrimSpace(ai.StripCodeFences(raw)), `"`)
	if reply == "" {
		return "", errors.New("model returned an empty reply")
	}
	return reply, nil
}
