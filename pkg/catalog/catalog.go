// Package catalog holds the fixed set of technologies (name + logo) that the
// model is asked to prefer when it recognises a technology in a resume or a
// chat edit.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed technologies.json
var technologiesJSON []byte

type Tech struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type Catalog struct {
	techs  []Tech
	byName map[string]Tech
}

var aliases = map[string]string{
	"golang":            "go",
	"postgres":          "postgresql",
	"psql":              "postgresql",
	"k8s":               "kubernetes",
	"ts":                "typescript",
	"js":                "javascript",
	"tailwind":          "tailwindcss",
	"gcp":               "googlecloud",
	"amazonwebservices": "aws",
	"rails":             "rubyonrails",
	"html5":             "html",
	"css3":              "css",
	"mongo":             "mongodb",
	"scss":              "sass",
}

// Default returns the built-in catalog.
func Default() *Catalog {
	var techs []Tech
	if err := json.Unmarshal(technologiesJSON, &techs); err != nil {
		panic(fmt.Sprintf("catalog: embedded technologies.json is invalid: %v", err))
	}
	return New(techs)
}

func New(techs []Tech) *Catalog {
	c := &Catalog{techs: techs, byName: make(map[string]Tech, len(techs))}
	for _, t := range techs {
		c.byName[normalize(t.Name)] = t
	}
	return c
}

func (c *Catalog) All() []Tech {
	out := make([]Tech, len(c.techs))
	copy(out, c.techs)
	return out
}

// Lookup finds the catalog entry for a free-text technology name, tolerating
// the usual spelling variants ("React.js", "reactjs", "React").
func (c *Catalog) Lookup(name string) (Tech, bool) {
	key := normalize(name)
	if key == "" {
		return Tech{}, false
	}
	if t, ok := c.byName[key]; ok {
		return t, true
	}
	if alias, ok := aliases[key]; ok {
		t, ok := c.byName[alias]
		return t, ok
	}
	return Tech{}, false
}

// PromptList renders the catalog as exact name/logo pairs for embedding in a
// prompt.
func (c *Catalog) PromptList() string {
	var sb strings.Builder
	for _, t := range c.techs {
		fmt.Fprintf(&sb, "- {\"name\": %q, \"logo\": %q}\n", t.Name, t.Logo)
	}
	return sb.String()
}

func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "", ".", "", "-", "", "_", "").Replace(s)
	if len(s) > 2 && strings.HasSuffix(s, "js") && s != "nextjs" {
		s = strings.TrimSuffix(s, "js")
	}
	return s
}
