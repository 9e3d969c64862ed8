package render

import (
	"testing"

	"craftfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.github.com/sam", "github.com"},
		{"linkedin.com/in/sam", "linkedin.com"},
		{"https://docs.example.co.uk/page", "example.co.uk"},
		{"mailto:sam@example.org", "sam@example.org"},
		{"http://localhost:3000", "localhost"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkLabel(tt.in))
		})
	}
}

var previewDoc = domain.Document{
	{Type: domain.SectionUserInfo, Data: map[string]any{"email": "sam@example.org", "github": "https://github.com/sam", "linkedin": ""}},
	{Type: domain.SectionHero, Data: map[string]any{
		"name":     "Sam Rivera",
		"title":    map[string]any{"prefix": "Software", "suffixes": []any{"Engineer", "Developer"}},
		"subtitle": "Builds APIs.\nRuns on coffee.",
		"summary":  "Builds APIs. Runs on coffee.",
	}},
	{Type: domain.SectionProjects, Data: map[string]any{"items": []any{
		map[string]any{"name": "ledger", "title": "Ledger", "githubLink": "https://github.com/sam/ledger", "techStack": []any{map[string]any{"name": "Go"}}},
		"not an object",
	}}},
	{Type: domain.SectionTechnologies, Data: map[string]any{"items": []any{map[string]any{"name": "Go", "logo": "https://cdn.example/go.svg"}}}},
	{Type: "themes", Data: map[string]any{"color": "dark"}},
}

func TestNewPage(t *testing.T) {
	p := NewPage(previewDoc)

	assert.Equal(t, "Sam Rivera", p.Name)
	assert.Equal(t, "Software Engineer", p.Title)
	assert.Equal(t, []Link{
		{Kind: "email", URL: "mailto:sam@example.org"},
		{Kind: "github", URL: "https://github.com/sam"},
	}, p.Links)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, "Ledger", p.Projects[0].Title)
	assert.Equal(t, []Tech{{Name: "Go"}}, p.Projects[0].TechStack)
	assert.Empty(t, p.Experience)
	assert.Equal(t, []Tech{{Name: "Go", Logo: "https://cdn.example/go.svg"}}, p.Technologies)
}

func TestHTML(t *testing.T) {
	html, err := HTML(previewDoc)
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Sam Rivera</h1>")
	assert.Contains(t, html, "<p>Runs on coffee.</p>")
	assert.Contains(t, html, `>github.com</a>`)
	assert.Contains(t, html, `id="projects"`)
	assert.NotContains(t, html, `id="experience"`)

	empty, err := HTML(domain.Document{})
	require.NoError(t, err)
	assert.Contains(t, empty, "<title>Portfolio</title>")
}

func TestHTMLEscapesContent(t *testing.T) {
	html, err := HTML(domain.Document{{Type: domain.SectionHero, Data: map[string]any{"name": "<script>alert(1)</script>"}}})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
