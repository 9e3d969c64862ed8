package usecase

import (
	"fmt"
	"strings"

	"craftfolio/internal/domain"
	"craftfolio/internal/model"
	"craftfolio/pkg/ai/formatters"
)

// Defaults used when the resume does not say.
const (
	DefaultExperienceLocation = "Remote"
	DefaultExperienceStart    = "01/2023"
	DefaultExperienceEnd      = "Present"

	PlaceholderGithubLink = "https://github.com"
	PlaceholderLiveLink   = "https://example.com"

	heroTitlePrefix = "Software"
	badgeColor      = "green"
)

var (
	heroTitleSuffixes = []any{"Engineer", "Developer"}
	badgeTexts        = []any{"Open to work", "Building for the web", "Shipping every week"}
)

// MapResume builds the initial portfolio for an extracted resume. Sections
// are only emitted when the resume has data for them, so the result can hold
// anywhere from zero to five sections.
//
// userInfo keeps github, linkedin and email only. Other personal details are
// dropped here.
func MapResume(r model.Resume) domain.Document {
	doc := domain.Document{}

	if r.PersonalInfo != nil {
		doc = append(doc, domain.Section{
			Type: domain.SectionUserInfo,
			Data: map[string]any{
				"github":   r.PersonalInfo.GitHub,
				"linkedin": r.PersonalInfo.LinkedIn,
				"email":    r.PersonalInfo.Email,
			},
		})
	}

	name := ""
	if r.PersonalInfo != nil {
		name = strings.TrimSpace(r.PersonalInfo.Name)
	}
	summary := strings.TrimSpace(r.Summary)
	if name != "" || summary != "" {
		doc = append(doc, domain.Section{Type: domain.SectionHero, Data: heroData(name, summary, r.Skills)})
	}

	if len(r.Projects) > 0 {
		items := make([]any, 0, len(r.Projects))
		for _, p := range r.Projects {
			items = append(items, projectItem(p))
		}
		doc = append(doc, domain.Section{Type: domain.SectionProjects, Data: map[string]any{"items": items}})
	}

	if len(r.Experience) > 0 {
		items := make([]any, 0, len(r.Experience))
		for _, e := range r.Experience {
			items = append(items, experienceItem(e))
		}
		doc = append(doc, domain.Section{Type: domain.SectionExperience, Data: map[string]any{"items": items}})
	}

	if len(r.Skills) > 0 {
		doc = append(doc, domain.Section{Type: domain.SectionTechnologies, Data: map[string]any{"items": techList(r.Skills)}})
	}

	return doc
}

func heroData(name, summary string, skills []model.Tech) map[string]any {
	data := map[string]any{
		"name": name,
		"title": map[string]any{
			"prefix":   heroTitlePrefix,
			"suffixes": heroTitleSuffixes,
		},
		"badge": map[string]any{
			"texts":   badgeTexts,
			"color":   badgeColor,
			"visible": true,
		},
		"actions": []any{
			map[string]any{"label": "View Projects", "href": "#projects"},
			map[string]any{"label": "Contact Me", "href": "#contact"},
		},
	}

	if summary != "" {
		clauses := SummaryClauses(summary)
		data["subtitle"] = Subtitle(clauses)
		data["summary"] = summary
		if len(clauses) > 0 {
			data["shortSummary"] = clauses[0] + "."
		}
		return data
	}

	lead := heroTitlePrefix
	if len(skills) > 0 && strings.TrimSpace(skills[0].Name) != "" {
		lead = skills[0].Name
	}
	data["subtitle"] = fallbackSubtitle(lead)
	return data
}

// SummaryClauses splits a summary on periods, dropping empty pieces.
func SummaryClauses(summary string) []string {
	var out []string
	for _, part := range strings.Split(summary, ".") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Subtitle joins the first three clauses with ".\n". No period follows the
// last clause.
func Subtitle(clauses []string) string {
	if len(clauses) > 3 {
		clauses = clauses[:3]
	}
	if len(clauses) == 0 {
		return ""
	}
	return strings.Join(clauses, ".\n")
}

func fallbackSubtitle(tech string) string {
	return fmt.Sprintf("%s developer.\nBuilding reliable products.\nAlways learning.", tech)
}

func projectItem(p model.Project) map[string]any {
	title := strings.TrimSpace(p.ProjectTitle)
	if title == "" {
		title = firstWords(p.ProjectName, 3)
	}
	github := p.GithubLink
	if github == "" {
		github = PlaceholderGithubLink
	}
	live := p.LiveLink
	if live == "" {
		live = PlaceholderLiveLink
	}
	return map[string]any{
		"name":        p.ProjectName,
		"title":       title,
		"description": p.ProjectDescription,
		"githubLink":  github,
		"liveLink":    live,
		"image":       formatters.PlaceholderProjectImage,
		"techStack":   techList(p.TechStack),
	}
}

func experienceItem(e model.Experience) map[string]any {
	return map[string]any{
		"role":        e.Role,
		"companyName": e.CompanyName,
		"location":    orDefault(e.Location, DefaultExperienceLocation),
		"startDate":   orDefault(e.StartDate, DefaultExperienceStart),
		"endDate":     orDefault(e.EndDate, DefaultExperienceEnd),
		"description": e.Description,
		"techStack":   techList(e.TechStack),
	}
}

func techList(techs []model.Tech) []any {
	out := make([]any, 0, len(techs))
	for _, t := range techs {
		out = append(out, map[string]any{"name": t.Name, "logo": t.Logo})
	}
	return out
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
