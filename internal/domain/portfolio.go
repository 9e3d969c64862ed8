package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Section types understood by the portfolio renderer.
const (
	SectionUserInfo     = "userInfo"
	SectionHero         = "hero"
	SectionProjects     = "projects"
	SectionExperience   = "experience"
	SectionTechnologies = "technologies"
	SectionEducation    = "education"
	SectionThemes       = "themes"
	SectionSEO          = "seo"
)

// Section is one typed block of a portfolio. The shape of Data depends on
// Type; list-shaped sections keep their entries under "items".
type Section struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Document is the ordered list of sections that makes up a portfolio. Order is
// display order. Consumers read the first section of a given type.
type Document []Section

// Find returns the first section of the given type.
func (d Document) Find(sectionType string) (Section, bool) {
	for _, s := range d {
		if s.Type == sectionType {
			return s, true
		}
	}
	return Section{}, false
}

// Clone returns a deep copy so a turn can hand out the original untouched.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return append(Document(nil), d...)
	}
	var out Document
	if err := json.Unmarshal(b, &out); err != nil {
		return append(Document(nil), d...)
	}
	return out
}

// Change is one edit extracted from a chat message.
type Change struct {
	Intent      string `json:"intent"`
	SectionName string `json:"sectionName"`
	Value       string `json:"value"`
}

// MessageMemory is a prior chat message kept by the client for context.
type MessageMemory struct {
	Text string `json:"text"`
	// Timestamp is passed through as sent (epoch millis or ISO string).
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type Portfolio struct {
	ID        uuid.UUID `json:"id"`
	Sections  Document  `json:"sections"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatTurn records one successful chat edit.
type ChatTurn struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Input       string    `json:"input"`
	Changes     []Change  `json:"changes"`
	Reply       string    `json:"reply"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrPortfolioNotFound is returned by stores when no portfolio has the
// requested id.
var ErrPortfolioNotFound = errors.New("portfolio not found")
