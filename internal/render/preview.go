// Package render turns a portfolio document into a standalone HTML page used
// for previews and PDF export.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"craftfolio/internal/domain"

	"golang.org/x/net/publicsuffix"
)

//go:embed preview.html.tmpl
var previewSource string

var previewTpl = template.Must(template.New("preview").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
	"label": LinkLabel,
}).Parse(previewSource))

type Link struct {
	Kind string
	URL  string
}

type Tech struct {
	Name string
	Logo string
}

type Project struct {
	Title       string
	Description string
	Image       string
	Links       []Link
	TechStack   []Tech
}

type Job struct {
	Role        string
	CompanyName string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

// Page is the view of a document the preview template renders.
type Page struct {
	Name         string
	Title        string
	Subtitle     string
	Summary      string
	Links        []Link
	Projects     []Project
	Experience   []Job
	Technologies []Tech
}

// HTML renders doc as a complete HTML page.
func HTML(doc domain.Document) (string, error) {
	var buf bytes.Buffer
	if err := previewTpl.Execute(&buf, NewPage(doc)); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}

// NewPage reads the sections the preview knows about. Unknown section types
// and fields of unexpected shape are skipped.
func NewPage(doc domain.Document) Page {
	var p Page

	if s, ok := doc.Find(domain.SectionUserInfo); ok {
		if v := str(s.Data, "email"); v != "" {
			p.Links = append(p.Links, Link{Kind: "email", URL: "mailto:" + v})
		}
		for _, k := range []string{"github", "linkedin"} {
			if v := str(s.Data, k); v != "" {
				p.Links = append(p.Links, Link{Kind: k, URL: v})
			}
		}
	}

	if s, ok := doc.Find(domain.SectionHero); ok {
		p.Name = str(s.Data, "name")
		p.Subtitle = str(s.Data, "subtitle")
		p.Summary = str(s.Data, "summary")
		switch t := s.Data["title"].(type) {
		case string:
			p.Title = t
		case map[string]any:
			p.Title = str(t, "prefix")
			if suffixes, ok := t["suffixes"].([]any); ok && len(suffixes) > 0 {
				if first, ok := suffixes[0].(string); ok {
					p.Title += " " + first
				}
			}
		}
	}

	if s, ok := doc.Find(domain.SectionProjects); ok {
		for _, it := range items(s.Data) {
			pr := Project{
				Title:       firstNonEmpty(str(it, "title"), str(it, "name")),
				Description: str(it, "description"),
				Image:       str(it, "image"),
				TechStack:   techs(it["techStack"]),
			}
			for _, k := range []string{"githubLink", "liveLink"} {
				if v := str(it, k); v != "" {
					pr.Links = append(pr.Links, Link{Kind: k, URL: v})
				}
			}
			p.Projects = append(p.Projects, pr)
		}
	}

	if s, ok := doc.Find(domain.SectionExperience); ok {
		for _, it := range items(s.Data) {
			p.Experience = append(p.Experience, Job{
				Role:        str(it, "role"),
				CompanyName: str(it, "companyName"),
				Location:    str(it, "location"),
				StartDate:   str(it, "startDate"),
				EndDate:     str(it, "endDate"),
				Description: str(it, "description"),
			})
		}
	}

	if s, ok := doc.Find(domain.SectionTechnologies); ok {
		p.Technologies = techs(s.Data["items"])
	}

	return p
}

// LinkLabel shortens a URL to its registrable domain for display, e.g.
// "https://www.github.com/sam" becomes "github.com".
func LinkLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "mailto:") {
		return strings.TrimPrefix(raw, "mailto:")
	}
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return raw
	}
	host := parsed.Hostname()
	if host == "" {
		return raw
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func items(data map[string]any) []map[string]any {
	raw, _ := data["items"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func techs(v any) []Tech {
	raw, _ := v.([]any)
	var out []Tech
	for _, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if name := str(m, "name"); name != "" {
			out = append(out, Tech{Name: name, Logo: str(m, "logo")})
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
