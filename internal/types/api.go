package types

// Remote persona/resume API wire shapes. These mirror the server's field
// naming exactly; the mapping package is the only consumer allowed to
// translate them into the normalized section content model.

// ResumeMeta is the response of GET /resume/{id}.
type ResumeMeta struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
	PersonaID  string `json:"persona_id,omitempty"`
	ATSScore   *int   `json:"ats_score,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// APIExperience is one experience record as rendered from the persona.
// The description and bullets fields each carry up to four variants because
// the server may return a resume at any point in its AI-enhancement
// lifecycle; the client must render something for every state.
type APIExperience struct {
	ID              string   `json:"id"`
	CompanyName     string   `json:"company_name"`
	JobTitle        string   `json:"job_title"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date,omitempty"`
	Description     string   `json:"description,omitempty"`
	DescriptionActive   string `json:"description_active,omitempty"`
	DescriptionOriginal string `json:"description_original,omitempty"`
	DescriptionEnhanced string `json:"description_enhanced,omitempty"`
	Bullets         []string `json:"bullets,omitempty"`
	BulletsActive   []string `json:"bullets_active,omitempty"`
	BulletsOriginal []string `json:"bullets_original,omitempty"`
	BulletsEnhanced []string `json:"bullets_enhanced,omitempty"`
}

// APIEducation is one education record as rendered from the persona.
type APIEducation struct {
	ID             string `json:"id"`
	InstitutionName string `json:"institution_name"`
	DegreeType     string `json:"degree_type"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa,omitempty"`
}

// APISkill is one skill record as rendered from the persona.
type APISkill struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Proficiency string `json:"proficiency,omitempty"`
}

// RenderedResume is the response of GET /resume/{id}/render. Any of the
// fields may be absent; the mapper must tolerate every combination.
type RenderedResume struct {
	Summary     string          `json:"summary,omitempty"`
	Experiences []APIExperience `json:"experiences,omitempty"`
	Education   []APIEducation  `json:"education,omitempty"`
	Skills      []APISkill      `json:"skills,omitempty"`
}

// ContentSelection is the section content carried by a save request.
// The save contract currently round-trips experiences only.
type ContentSelection struct {
	Experiences []ExperienceContent `json:"experiences"`
}

// UpdateResumeRequest is the body of PUT /resume/{id}.
type UpdateResumeRequest struct {
	Name             string           `json:"name"`
	TemplateID       string           `json:"template_id"`
	ContentSelection ContentSelection `json:"content_selection"`
}

// AnalyzeRequest is the body of POST /resume/{id}/analyze.
type AnalyzeRequest struct {
	Sections []ResumeSection `json:"sections"`
}

// AnalyzeResponse is the response of POST /resume/{id}/analyze.
type AnalyzeResponse struct {
	Score     int          `json:"score"`
	Breakdown ATSBreakdown `json:"breakdown"`
	Issues    []ATSIssue   `json:"issues"`
}
