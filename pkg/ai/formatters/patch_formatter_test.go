package formatters

import (
	"context"
	"strings"
	"testing"

	"craftfolio/internal/domain"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/ai/aitest"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleDoc(title string) string {
	return `[{"type":"hero","data":{"title":"` + title + `"}}]`
}

func TestPatchFormatterLaterChangesWin(t *testing.T) {
	m := aitest.Texts(
		ai.WrapInJSONFence(titleDoc("A")),
		"```\n"+titleDoc("B")+"\n```",
	)
	f := NewPatchFormatter(m, catalog.Default())

	start := domain.Document{{Type: domain.SectionHero, Data: map[string]any{"title": "Original"}}}
	changes := []domain.Change{
		{Intent: "set", SectionName: "hero.title", Value: "A"},
		{Intent: "set", SectionName: "hero.title", Value: "B"},
	}

	got, err := f.Apply(context.Background(), start, changes)
	require.NoError(t, err)

	hero, ok := got.Find(domain.SectionHero)
	require.True(t, ok)
	assert.Equal(t, "B", hero.Data["title"])

	// the second prompt sees the result of the first change, not the original
	assert.Contains(t, m.Prompt(0), `"title": "Original"`)
	assert.Contains(t, m.Prompt(1), `"title": "A"`)
	assert.NotContains(t, m.Prompt(1), `"title": "Original"`)
	assert.Equal(t, "Original", start[0].Data["title"], "input document is not mutated")
}

func TestPatchFormatterSummaryGetsTwoVariants(t *testing.T) {
	updated := `[{"type":"hero","data":{"name":"Sam",` +
		`"summary":"Sam builds backend systems. He focuses on reliability.",` +
		`"shortSummary":"Backend engineer focused on reliability."}}]`
	m := aitest.Texts(updated)
	f := NewPatchFormatter(m, catalog.Default())

	start := domain.Document{{Type: domain.SectionHero, Data: map[string]any{
		"name":    "Sam",
		"summary": "One. Two. Three. Four. Five.",
	}}}
	got, err := f.Apply(context.Background(), start, []domain.Change{
		{Intent: "shorten", SectionName: "hero.summary", Value: "Sam builds backend systems. He focuses on reliability."},
	})
	require.NoError(t, err)

	hero, _ := got.Find(domain.SectionHero)
	assert.NotEmpty(t, hero.Data["summary"])
	assert.NotEmpty(t, hero.Data["shortSummary"])
	for _, p := range ForbiddenPlaceholders {
		assert.NotEqual(t, p, hero.Data["summary"])
		assert.NotEqual(t, p, hero.Data["shortSummary"])
	}

	prompt := m.Prompt(0)
	assert.Contains(t, prompt, `"summary" (2-3 sentences) and "shortSummary" (exactly 1 sentence)`)
	assert.Contains(t, prompt, `"[Your text here]"`)
	assert.NotContains(t, prompt, "choose only from this list")
}

func TestPatchFormatterPromptHints(t *testing.T) {
	m := aitest.Texts(titleDoc("x"), titleDoc("y"))
	f := NewPatchFormatter(m, catalog.New([]catalog.Tech{{Name: "Go", Logo: "https://logo/go.svg"}}))

	_, err := f.Apply(context.Background(), domain.Document{}, []domain.Change{
		{Intent: "add", SectionName: "technologies", Value: "Go"},
		{Intent: "add", SectionName: "projects", Value: "A CLI for portfolio exports"},
	})
	require.NoError(t, err)

	assert.Contains(t, m.Prompt(0), `{"name": "Go", "logo": "https://logo/go.svg"}`)
	assert.NotContains(t, m.Prompt(0), PlaceholderProjectImage)
	assert.Contains(t, m.Prompt(1), PlaceholderProjectImage)
}

func TestPatchFormatterAbortsOnProse(t *testing.T) {
	prose := "I have updated your name to Sam!"
	m := aitest.Texts(titleDoc("A"), prose, titleDoc("C"))
	f := NewPatchFormatter(m, catalog.Default())

	got, err := f.Apply(context.Background(), domain.Document{}, []domain.Change{
		{Intent: "set", SectionName: "hero.title", Value: "A"},
		{Intent: "set", SectionName: "hero.name", Value: "Sam"},
		{Intent: "set", SectionName: "hero.title", Value: "C"},
	})
	require.Error(t, err)
	assert.Nil(t, got)

	appErr := apperror.As(err)
	assert.Equal(t, apperror.KindPatchApply, appErr.Kind)
	assert.Equal(t, prose, appErr.Raw)
	assert.Equal(t, 1, appErr.Applied)
	assert.Equal(t, 2, m.Calls(), "remaining changes are not attempted")
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument("```json\n" + titleDoc("ok") + "\n```", nil)
	require.NoError(t, err)
	assert.Len(t, doc, 1)

	_, err = ParseDocument(`{"type":"hero","data":{}}`, nil)
	assert.Error(t, err, "a single object is not a document")

	_, err = ParseDocument(`[{"type":"projects","data":{"items":[{"title":"Example project"}]}}]`, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "placeholder"))

	_, err = ParseDocument(`[{"type":"hero","data":{"subtitle":"  [your text here] "}}]`, nil)
	assert.Error(t, err)

	_, err = ParseDocument(`[{"type":"hero","data":{"subtitle":"I replaced the placeholder copy"}}]`, nil)
	assert.NoError(t, err, "only whole-value matches are rejected")
}

func TestPatchFormatterKeepsExistingPlaceholders(t *testing.T) {
	start := domain.Document{
		{Type: domain.SectionHero, Data: map[string]any{"name": "Samantha"}},
		{Type: domain.SectionExperience, Data: map[string]any{"items": []any{
			map[string]any{"company": "Acme", "endDate": "TBD"},
		}}},
	}
	untouched := `[{"type":"hero","data":{"name":"Sam"}},` +
		`{"type":"experience","data":{"items":[{"company":"Acme","endDate":"TBD"}]}}]`
	introduced := `[{"type":"hero","data":{"name":"Sam","subtitle":"[Your text here]"}},` +
		`{"type":"experience","data":{"items":[{"company":"Acme","endDate":"TBD"}]}}]`
	rename := []domain.Change{{Intent: "update", SectionName: "hero.name", Value: "Sam"}}

	got, err := NewPatchFormatter(aitest.Texts(untouched), catalog.Default()).Apply(context.Background(), start, rename)
	require.NoError(t, err, "a placeholder the user already had is not the model's doing")
	hero, _ := got.Find(domain.SectionHero)
	assert.Equal(t, "Sam", hero.Data["name"])

	_, err = NewPatchFormatter(aitest.Texts(introduced), catalog.Default()).Apply(context.Background(), start, rename)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPatchApply, apperror.As(err).Kind)
}

func TestParseDocumentAllowsPlaceholdersFromBefore(t *testing.T) {
	before := domain.Document{{Type: domain.SectionHero, Data: map[string]any{"subtitle": "tbd"}}}

	_, err := ParseDocument(`[{"type":"hero","data":{"subtitle":" TBD "}}]`, before)
	assert.NoError(t, err)

	_, err = ParseDocument(`[{"type":"hero","data":{"subtitle":"TBD","title":"Lorem ipsum"}}]`, before)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Lorem ipsum")
}
