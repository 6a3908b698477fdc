package types

import "time"

// ResumeDocument is the in-memory, editable representation of one resume.
// It is owned exclusively by the document store for the lifetime of one
// editing session: created on load, mutated by user actions and the mapper,
// discarded on navigation away without save.
type ResumeDocument struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	TemplateID   string         `json:"template_id"`
	PersonaID    string         `json:"persona_id,omitempty"`
	Sections     []ResumeSection `json:"sections"`
	ATSScore     *int           `json:"ats_score,omitempty"`
	ATSAnalysis  *ATSAnalysis   `json:"ats_analysis,omitempty"`
	LastModified time.Time      `json:"last_modified,omitempty"`
}

// SectionByID returns a pointer to the section with the given id, or nil.
func (d *ResumeDocument) SectionByID(id string) *ResumeSection {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// VisibleSections returns the sections with IsVisible set, in order.
func (d *ResumeDocument) VisibleSections() []ResumeSection {
	visible := make([]ResumeSection, 0, len(d.Sections))
	for _, s := range d.Sections {
		if s.IsVisible {
			visible = append(visible, s)
		}
	}
	return visible
}

// Clone returns a deep copy of the document. Readers outside the store get
// clones so no caller can observe or mutate store-owned state.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Sections = make([]ResumeSection, len(d.Sections))
	copy(out.Sections, d.Sections)
	for i := range out.Sections {
		c := &out.Sections[i].Content
		c.Experiences = cloneExperiences(c.Experiences)
		c.Education = append([]EducationContent(nil), c.Education...)
		c.Skills = append([]SkillContent(nil), c.Skills...)
		c.Custom = append([]byte(nil), c.Custom...)
	}
	if d.ATSScore != nil {
		score := *d.ATSScore
		out.ATSScore = &score
	}
	if d.ATSAnalysis != nil {
		analysis := *d.ATSAnalysis
		analysis.Issues = append([]ATSIssue(nil), d.ATSAnalysis.Issues...)
		out.ATSAnalysis = &analysis
	}
	return &out
}

func cloneExperiences(experiences []ExperienceContent) []ExperienceContent {
	if experiences == nil {
		return nil
	}
	out := make([]ExperienceContent, len(experiences))
	copy(out, experiences)
	for i := range out {
		out[i].Achievements = append([]string(nil), out[i].Achievements...)
		out[i].AchievementsOriginal = append([]string(nil), out[i].AchievementsOriginal...)
		out[i].AchievementsEnhanced = append([]string(nil), out[i].AchievementsEnhanced...)
	}
	return out
}

// ATSAnalysis holds the structured result of an ATS compatibility analysis.
type ATSAnalysis struct {
	Score     int          `json:"score"`
	Breakdown ATSBreakdown `json:"breakdown"`
	Issues    []ATSIssue   `json:"issues"`
}

// ATSBreakdown is the per-category score breakdown of an ATS analysis.
type ATSBreakdown struct {
	Format        int `json:"format"`
	Content       int `json:"content"`
	Keywords      int `json:"keywords"`
	BestPractices int `json:"bestPractices"`
}

// ATSIssue is a single issue reported by the ATS analysis.
type ATSIssue struct {
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}
