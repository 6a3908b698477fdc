// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SectionType identifies the kind of content a resume section holds.
type SectionType string

// Section type constants define the closed set of section kinds.
const (
	// SectionSummary holds a plain-text professional summary
	SectionSummary SectionType = "summary"
	// SectionExperience holds an ordered list of work experiences
	SectionExperience SectionType = "experience"
	// SectionEducation holds an ordered list of education entries
	SectionEducation SectionType = "education"
	// SectionSkills holds an ordered list of skills
	SectionSkills SectionType = "skills"
	// SectionCustom holds opaque content passed through unmodified
	SectionCustom SectionType = "custom"
)

// ExperienceContent represents one work experience entry within an experience section.
// The *_original / *_enhanced pairs preserve pre-AI and post-AI text so a user
// can compare or revert after an enhancement is applied.
type ExperienceContent struct {
	ID                   string   `json:"id"`
	Company              string   `json:"company"`
	Title                string   `json:"title"`
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date,omitempty"`
	Description          string   `json:"description"`
	Achievements         []string `json:"achievements"`
	DescriptionOriginal  string   `json:"description_original,omitempty"`
	DescriptionEnhanced  string   `json:"description_enhanced,omitempty"`
	AchievementsOriginal []string `json:"achievements_original,omitempty"`
	AchievementsEnhanced []string `json:"achievements_enhanced,omitempty"`
}

// EducationContent represents one education entry within an education section.
type EducationContent struct {
	ID     string `json:"id"`
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field,omitempty"`
	Year   string `json:"year"`
	GPA    string `json:"gpa,omitempty"`
}

// SkillContent represents one skill entry within a skills section.
type SkillContent struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Proficiency string `json:"proficiency,omitempty"`
}

// SectionContent is the tagged union of section content shapes.
// Exactly one arm is meaningful; which one is determined by the owning
// section's Type. Assigning a mismatched arm is a programming error, not a
// runtime-recoverable condition (see ResumeSection.CheckContent).
type SectionContent struct {
	Summary     string              `json:"summary,omitempty"`
	Experiences []ExperienceContent `json:"experiences,omitempty"`
	Education   []EducationContent  `json:"education,omitempty"`
	Skills      []SkillContent      `json:"skills,omitempty"`
	Custom      json.RawMessage     `json:"custom,omitempty"`
}

// ResumeSection represents one addressable, typed block of resume content.
type ResumeSection struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Type      SectionType    `json:"type"`
	Content   SectionContent `json:"content"`
	IsVisible bool           `json:"is_visible"`
	Order     int            `json:"order"`
}

// ErrContentMismatch indicates a section content arm that does not match the section type.
type ErrContentMismatch struct {
	SectionID string
	Type      SectionType
}

func (e *ErrContentMismatch) Error() string {
	return fmt.Sprintf("section %s: content does not match type %s", e.SectionID, e.Type)
}

// CheckContent verifies that only the content arm matching the section type
// is populated. Callers assigning content must treat a non-nil return as a
// precondition violation.
func (s *ResumeSection) CheckContent() error {
	c := s.Content
	mismatch := func() error {
		return &ErrContentMismatch{SectionID: s.ID, Type: s.Type}
	}

	switch s.Type {
	case SectionSummary:
		if c.Experiences != nil || c.Education != nil || c.Skills != nil || c.Custom != nil {
			return mismatch()
		}
	case SectionExperience:
		if c.Summary != "" || c.Education != nil || c.Skills != nil || c.Custom != nil {
			return mismatch()
		}
	case SectionEducation:
		if c.Summary != "" || c.Experiences != nil || c.Skills != nil || c.Custom != nil {
			return mismatch()
		}
	case SectionSkills:
		if c.Summary != "" || c.Experiences != nil || c.Education != nil || c.Custom != nil {
			return mismatch()
		}
	case SectionCustom:
		if c.Summary != "" || c.Experiences != nil || c.Education != nil || c.Skills != nil {
			return mismatch()
		}
	default:
		return fmt.Errorf("section %s: unknown section type %q", s.ID, s.Type)
	}
	return nil
}

// DefaultSections returns the four built-in sections with empty content,
// visible, and dense order 0..3. Used both as the base shape to populate
// from the API and as the fallback when the API has no data yet.
func DefaultSections() []ResumeSection {
	return []ResumeSection{
		{
			ID:        uuid.NewString(),
			Title:     "Professional Summary",
			Type:      SectionSummary,
			IsVisible: true,
			Order:     0,
		},
		{
			ID:        uuid.NewString(),
			Title:     "Work Experience",
			Type:      SectionExperience,
			Content:   SectionContent{Experiences: []ExperienceContent{}},
			IsVisible: true,
			Order:     1,
		},
		{
			ID:        uuid.NewString(),
			Title:     "Education",
			Type:      SectionEducation,
			Content:   SectionContent{Education: []EducationContent{}},
			IsVisible: true,
			Order:     2,
		},
		{
			ID:        uuid.NewString(),
			Title:     "Skills",
			Type:      SectionSkills,
			Content:   SectionContent{Skills: []SkillContent{}},
			IsVisible: true,
			Order:     3,
		},
	}
}
