package document

import (
	"time"

	"github.com/careerpilot/resume-studio/internal/types"
)

// ApplyEnhancedText commits confirmed enhancement text into the target
// section: the summary body for summary enhancements, the first achievement
// bullet or the description of the first experience otherwise. Only the
// targeted path mutates; sibling entries keep their identity. The pre-AI
// text is preserved in the *_original fields the first time an enhancement
// lands so the user can compare or revert.
func (s *Store) ApplyEnhancedText(sectionID string, kind types.EnhancementKind, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return &ErrNotLoaded{}
	}
	sec := s.doc.SectionByID(sectionID)
	if sec == nil {
		return &ErrSectionNotFound{SectionID: sectionID}
	}

	switch kind {
	case types.KindSummary:
		if sec.Type != types.SectionSummary {
			return &ErrKindMismatch{SectionID: sectionID, Kind: string(kind)}
		}
		sec.Content.Summary = text

	case types.KindBulletPoint:
		if sec.Type != types.SectionExperience {
			return &ErrKindMismatch{SectionID: sectionID, Kind: string(kind)}
		}
		if len(sec.Content.Experiences) == 0 {
			return &ErrNoExperience{SectionID: sectionID}
		}
		exp := &sec.Content.Experiences[0]
		if exp.AchievementsOriginal == nil {
			exp.AchievementsOriginal = append([]string(nil), exp.Achievements...)
		}
		if len(exp.Achievements) == 0 {
			exp.Achievements = []string{text}
		} else {
			exp.Achievements[0] = text
		}
		exp.AchievementsEnhanced = append([]string(nil), exp.Achievements...)

	case types.KindDescription:
		if sec.Type != types.SectionExperience {
			return &ErrKindMismatch{SectionID: sectionID, Kind: string(kind)}
		}
		if len(sec.Content.Experiences) == 0 {
			return &ErrNoExperience{SectionID: sectionID}
		}
		exp := &sec.Content.Experiences[0]
		if exp.DescriptionOriginal == "" {
			exp.DescriptionOriginal = exp.Description
		}
		exp.Description = text
		exp.DescriptionEnhanced = text

	default:
		return &ErrKindMismatch{SectionID: sectionID, Kind: string(kind)}
	}

	s.doc.LastModified = time.Now()
	return nil
}
