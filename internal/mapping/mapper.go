// Package mapping translates between the remote persona API's wire shapes
// and the normalized section content model. It is the only package that
// knows the server's field naming; everything else works with the
// normalized types.
package mapping

import (
	"github.com/google/uuid"

	"github.com/careerpilot/resume-studio/internal/types"
)

// firstNonEmpty returns the first non-empty string of the candidates.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// firstNonEmptyList returns the first non-empty slice of the candidates,
// or an empty (non-nil) slice.
func firstNonEmptyList(candidates ...[]string) []string {
	for _, c := range candidates {
		if len(c) > 0 {
			out := make([]string, len(c))
			copy(out, c)
			return out
		}
	}
	return []string{}
}

// MapExperience maps one server experience record into normalized content.
// Text fields resolve through the active > enhanced > original > base
// fallback chain: the server may return a resume at any point in its
// AI-enhancement lifecycle and the client must render something for every
// state.
func MapExperience(api types.APIExperience) types.ExperienceContent {
	id := api.ID
	if id == "" {
		id = uuid.NewString()
	}

	return types.ExperienceContent{
		ID:                   id,
		Company:              api.CompanyName,
		Title:                api.JobTitle,
		StartDate:            api.StartDate,
		EndDate:              api.EndDate,
		Description:          firstNonEmpty(api.DescriptionActive, api.DescriptionEnhanced, api.DescriptionOriginal, api.Description),
		Achievements:         firstNonEmptyList(api.BulletsActive, api.BulletsEnhanced, api.BulletsOriginal, api.Bullets),
		DescriptionOriginal:  api.DescriptionOriginal,
		DescriptionEnhanced:  api.DescriptionEnhanced,
		AchievementsOriginal: api.BulletsOriginal,
		AchievementsEnhanced: api.BulletsEnhanced,
	}
}

// MapEducation maps one server education record into normalized content.
func MapEducation(api types.APIEducation) types.EducationContent {
	id := api.ID
	if id == "" {
		id = uuid.NewString()
	}

	return types.EducationContent{
		ID:     id,
		School: api.InstitutionName,
		Degree: api.DegreeType,
		Field:  api.FieldOfStudy,
		Year:   api.GraduationDate,
		GPA:    api.GPA,
	}
}

// MapSkill maps one server skill record into normalized content.
func MapSkill(api types.APISkill) types.SkillContent {
	return types.SkillContent{
		Name:        api.Name,
		Category:    api.Category,
		Proficiency: api.Proficiency,
	}
}

// MapRenderedResume replaces each base section's content with the mapped
// server data for its type. Sections with no corresponding server data keep
// their default empty content. The operation is pure and total: it returns
// a full document shape even from a response missing some or all fields.
func MapRenderedResume(resp *types.RenderedResume, base []types.ResumeSection) []types.ResumeSection {
	sections := make([]types.ResumeSection, len(base))
	copy(sections, base)

	if resp == nil {
		return sections
	}

	for i := range sections {
		switch sections[i].Type {
		case types.SectionSummary:
			if resp.Summary != "" {
				sections[i].Content = types.SectionContent{Summary: resp.Summary}
			}
		case types.SectionExperience:
			if len(resp.Experiences) > 0 {
				experiences := make([]types.ExperienceContent, 0, len(resp.Experiences))
				for _, exp := range resp.Experiences {
					experiences = append(experiences, MapExperience(exp))
				}
				sections[i].Content = types.SectionContent{Experiences: experiences}
			}
		case types.SectionEducation:
			if len(resp.Education) > 0 {
				education := make([]types.EducationContent, 0, len(resp.Education))
				for _, edu := range resp.Education {
					education = append(education, MapEducation(edu))
				}
				sections[i].Content = types.SectionContent{Education: education}
			}
		case types.SectionSkills:
			if len(resp.Skills) > 0 {
				skills := make([]types.SkillContent, 0, len(resp.Skills))
				for _, skill := range resp.Skills {
					skills = append(skills, MapSkill(skill))
				}
				sections[i].Content = types.SectionContent{Skills: skills}
			}
		case types.SectionCustom:
			// Opaque content is never rendered from the persona.
		}
	}

	return sections
}

// SavePayload serializes the document into the server's save contract.
// Only the experience section round-trips today (content_selection.experiences);
// use UnsavedSectionTypes to surface the gap to callers.
func SavePayload(doc *types.ResumeDocument) types.UpdateResumeRequest {
	experiences := []types.ExperienceContent{}
	for _, s := range doc.Sections {
		if s.Type == types.SectionExperience && s.Content.Experiences != nil {
			experiences = make([]types.ExperienceContent, len(s.Content.Experiences))
			copy(experiences, s.Content.Experiences)
			break
		}
	}

	return types.UpdateResumeRequest{
		Name:             doc.Title,
		TemplateID:       doc.TemplateID,
		ContentSelection: types.ContentSelection{Experiences: experiences},
	}
}

// UnsavedSectionTypes lists the section types with non-empty content that
// the save contract does not carry. The store logs these on every save so
// the phase-1 round-trip gap stays visible instead of silently dropping data.
func UnsavedSectionTypes(doc *types.ResumeDocument) []types.SectionType {
	var unsaved []types.SectionType
	for _, s := range doc.Sections {
		switch s.Type {
		case types.SectionSummary:
			if s.Content.Summary != "" {
				unsaved = append(unsaved, s.Type)
			}
		case types.SectionEducation:
			if len(s.Content.Education) > 0 {
				unsaved = append(unsaved, s.Type)
			}
		case types.SectionSkills:
			if len(s.Content.Skills) > 0 {
				unsaved = append(unsaved, s.Type)
			}
		case types.SectionCustom:
			if len(s.Content.Custom) > 0 {
				unsaved = append(unsaved, s.Type)
			}
		case types.SectionExperience:
			// Carried by the save contract.
		}
	}
	return unsaved
}
