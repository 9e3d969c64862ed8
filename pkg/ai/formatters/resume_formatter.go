package formatters

import (
	"context"
	"fmt"
	"strings"

	"craftfolio/internal/model"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/ai/structured"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/catalog"
	"craftfolio/pkg/logger"
)

// ExtractionTemperature keeps extraction output close to the source text.
// It narrows variance; it does not make output deterministic.
const ExtractionTemperature = 0.1

const extractTextPrompt = "Extract all text from this resume image. Preserve section headings, " +
	"bullet points, dates, links and contact details exactly as written. Return plain text only."

const resumeSkeleton = `{
  "personalInfo": {"name": "", "email": "", "phone": "", "linkedin": "", "github": "", "website": "", "location": ""},
  "summary": "",
  "experience": [{"role": "", "companyName": "", "location": "", "startDate": "MM/YYYY", "endDate": "MM/YYYY or Present", "description": "", "techStack": [{"name": "", "logo": ""}]}],
  "education": [{"degree": "", "institution": "", "location": "", "startDate": "", "endDate": "", "description": ""}],
  "skills": [{"name": "", "logo": ""}],
  "projects": [{"projectName": "", "projectTitle": "", "projectDescription": "", "githubLink": "", "liveLink": "", "techStack": [{"name": "", "logo": ""}]}],
  "certifications": [{"name": "", "issuer": "", "date": "", "url": ""}]
}`

// ResumeFormatter turns a resume image into a validated model.Resume in two
// model calls: raw text extraction, then structuring.
type ResumeFormatter struct {
	model   ai.Model
	catalog *catalog.Catalog
	parser  *structured.Parser
}

func NewResumeFormatter(m ai.Model, cat *catalog.Catalog) *ResumeFormatter {
	return &ResumeFormatter{
		model:   m,
		catalog: cat,
		parser:  structured.MustNew("resume", model.ResumeSchema),
	}
}

func (rf *ResumeFormatter) Format(ctx context.Context, img *ai.InlineImage) (*model.Resume, error) {
	text, err := rf.ExtractText(ctx, img)
	if err != nil {
		return nil, err
	}
	return rf.Structure(ctx, text)
}

// ExtractText asks the vision model for the raw resume text.
func (rf *ResumeFormatter) ExtractText(ctx context.Context, img *ai.InlineImage) (string, error) {
	text, err := rf.model.Generate(ctx, ai.Request{
		Prompt:      extractTextPrompt,
		Image:       img,
		Temperature: ai.Temperature(ExtractionTemperature),
	})
	if err != nil {
		return "", apperror.UpstreamModel(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.MalformedModelOutput("", fmt.Errorf("model returned no text for the resume image"))
	}
	logger.Log.Debug("resume_formatter: extracted text", "chars", len(text))
	return text, nil
}

// Structure converts raw resume text into a model.Resume. Output that cannot
// be isolated, parsed and validated is a MalformedModelOutput carrying the raw
// text; nothing is retried or guessed.
func (rf *ResumeFormatter) Structure(ctx context.Context, text string) (*model.Resume, error) {
	raw, err := rf.model.Generate(ctx, ai.Request{
		Prompt:      rf.structurePrompt(text),
		Temperature: ai.Temperature(ExtractionTemperature),
	})
	if err != nil {
		return nil, apperror.UpstreamModel(err)
	}

	var resume model.Resume
	if err := rf.parser.Parse(raw, &resume); err != nil {
		logger.Log.Warn("resume_formatter: unparseable model output", "error", err)
		return nil, apperror.MalformedModelOutput(raw, err)
	}
	rf.fillLogos(&resume)
	return &resume, nil
}

func (rf *ResumeFormatter) structurePrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Convert the resume text below into JSON.\n\n")
	sb.WriteString("Use exactly this structure (omit sections the resume does not have):\n")
	sb.WriteString(resumeSkeleton)
	sb.WriteString("\n\nKnown technologies. When a skill or tech stack entry matches one of these, ")
	sb.WriteString("even loosely (for example \"React.js\" or \"ReactJS\" for \"React\"), use the exact name and logo from this list:\n")
	sb.WriteString(rf.catalog.PromptList())
	sb.WriteString("\nFor technologies not in the list, use the name as written and an empty logo.\n")
	sb.WriteString("Do not invent data that is not in the resume.\n\n")
	sb.WriteString(rf.parser.FormatInstructions())
	sb.WriteString("\n\nOutput pure JSON only: no markdown, no code fences, no prose.\n\nResume text:\n")
	sb.WriteString(text)
	return sb.String()
}

// fillLogos adds catalog logos to recognised technologies that came back
// without one. Names are left as the model wrote them.
func (rf *ResumeFormatter) fillLogos(r *model.Resume) {
	fill := func(techs []model.Tech) {
		for i := range techs {
			if techs[i].Logo != "" {
				continue
			}
			if t, ok := rf.catalog.Lookup(techs[i].Name); ok {
				techs[i].Logo = t.Logo
			}
		}
	}
	fill(r.Skills)
	for i := range r.Experience {
		fill(r.Experience[i].TechStack)
	}
	for i := range r.Projects {
		fill(r.Projects[i].TechStack)
	}
}
