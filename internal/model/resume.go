package model

// Go models that match resume.schema.json. A Resume is produced once per
// upload by the extractor and consumed once by the portfolio mapper.

type Tech struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

type Experience struct {
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	TechStack   []Tech `json:"techStack,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	ProjectName        string `json:"projectName"`
	ProjectTitle       string `json:"projectTitle,omitempty"`
	ProjectDescription string `json:"projectDescription"`
	GithubLink         string `json:"githubLink,omitempty"`
	LiveLink           string `json:"liveLink,omitempty"`
	TechStack          []Tech `json:"techStack,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Resume struct {
	// nil when the model found no personal details at all
	PersonalInfo   *PersonalInfo   `json:"personalInfo,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []Tech          `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}
