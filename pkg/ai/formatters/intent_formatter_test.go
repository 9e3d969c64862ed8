package formatters

import (
	"context"
	"fmt"
	"testing"

	"craftfolio/internal/domain"
	"craftfolio/pkg/ai/aitest"
	"craftfolio/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heroDoc = domain.Document{
	{Type: domain.SectionHero, Data: map[string]any{"name": "Samantha", "summary": "Builds things."}},
}

func TestIntentFormatterReturnsEveryChange(t *testing.T) {
	m := aitest.Texts("```json\n" + `{"changes": [
		{"intent": "update", "sectionName": "hero.name", "value": "Sam"},
		{"intent": "shorten", "sectionName": "hero.summary", "value": "Builds reliable backend systems."}
	]}` + "\n```")
	f := NewIntentFormatter(m, 0)

	changes, err := f.Resolve(context.Background(), heroDoc, "change my name to Sam and shorten my bio", nil)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, domain.Change{Intent: "update", SectionName: "hero.name", Value: "Sam"}, changes[0])
	assert.Equal(t, "hero.summary", changes[1].SectionName)

	prompt := m.Prompt(0)
	assert.Contains(t, prompt, `Current request: "change my name to Sam and shorten my bio"`)
	assert.Contains(t, prompt, `"name": "Samantha"`)
	assert.Contains(t, prompt, `"required": ["intent", "sectionName", "value"]`)
	assert.NotContains(t, prompt, "Previous messages")
}

func TestIntentFormatterNumbersRecentMemory(t *testing.T) {
	m := aitest.Texts(`{"changes": []}`)
	f := NewIntentFormatter(m, 2)

	memory := []domain.MessageMemory{
		{Text: "make the hero bolder"},
		{Text: "shorten my summary"},
		{Text: "  "},
		{Text: "add Go to my skills"},
	}
	changes, err := f.Resolve(context.Background(), heroDoc, "shorten it more", memory)
	require.NoError(t, err)
	assert.Empty(t, changes)

	prompt := m.Prompt(0)
	assert.Contains(t, prompt, "1. shorten my summary\n2. add Go to my skills\n")
	assert.NotContains(t, prompt, "make the hero bolder")
}

func TestIntentFormatterRejectsInvalidChanges(t *testing.T) {
	cases := map[string]string{
		"prose":         "Sure, I will change your name.",
		"missing value": `{"changes": [{"intent": "update", "sectionName": "hero"}]}`,
		"not an array":  `{"changes": {"intent": "update", "sectionName": "hero", "value": "x"}}`,
		"numeric value": `{"changes": [{"intent": "update", "sectionName": "hero", "value": 3}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			f := NewIntentFormatter(aitest.Texts(raw), 0)
			changes, err := f.Resolve(context.Background(), heroDoc, "do it", nil)
			require.Error(t, err)
			assert.Nil(t, changes)
			assert.True(t, apperror.Is(err, apperror.KindIntentParse), fmt.Sprint(err))
			assert.Equal(t, raw, apperror.As(err).Raw)
		})
	}
}
