package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSections_ShapeAndOrder(t *testing.T) {
	sections := DefaultSections()
	require.Len(t, sections, 4)

	wantTypes := []SectionType{SectionSummary, SectionExperience, SectionEducation, SectionSkills}
	for i, sec := range sections {
		assert.Equal(t, wantTypes[i], sec.Type)
		assert.Equal(t, i, sec.Order)
		assert.True(t, sec.IsVisible)
		assert.NotEmpty(t, sec.ID)
		assert.NoError(t, sec.CheckContent())
	}
}

func TestDefaultSections_UniqueIDs(t *testing.T) {
	sections := DefaultSections()
	seen := make(map[string]bool)
	for _, sec := range sections {
		assert.False(t, seen[sec.ID], "duplicate section id %s", sec.ID)
		seen[sec.ID] = true
	}
}

func TestDefaultSections_FreshInstances(t *testing.T) {
	first := DefaultSections()
	second := DefaultSections()
	// Each call mints new ids so two documents never share section identity.
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestCheckContent_MatchingArms(t *testing.T) {
	section := ResumeSection{
		ID:   "s1",
		Type: SectionExperience,
		Content: SectionContent{
			Experiences: []ExperienceContent{{ID: "e1", Company: "Acme"}},
		},
	}
	assert.NoError(t, section.CheckContent())
}

func TestCheckContent_MismatchedArm(t *testing.T) {
	// An experience list assigned to a summary section is a programming
	// error, not a recoverable condition.
	section := ResumeSection{
		ID:   "s1",
		Type: SectionSummary,
		Content: SectionContent{
			Experiences: []ExperienceContent{{ID: "e1"}},
		},
	}
	err := section.CheckContent()
	require.Error(t, err)

	var mismatch *ErrContentMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "s1", mismatch.SectionID)
	assert.Equal(t, SectionSummary, mismatch.Type)
}

func TestCheckContent_UnknownType(t *testing.T) {
	section := ResumeSection{ID: "s1", Type: SectionType("bogus")}
	assert.Error(t, section.CheckContent())
}

func TestResumeSection_JSONMarshaling(t *testing.T) {
	section := ResumeSection{
		ID:    "sec_1",
		Title: "Work Experience",
		Type:  SectionExperience,
		Content: SectionContent{
			Experiences: []ExperienceContent{
				{
					ID:           "e1",
					Company:      "Acme",
					Title:        "Engineer",
					StartDate:    "2020-01",
					Description:  "Built things",
					Achievements: []string{"Shipped X"},
				},
			},
		},
		IsVisible: true,
		Order:     1,
	}

	jsonBytes, err := json.Marshal(section)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"type":"experience"`)
	assert.Contains(t, string(jsonBytes), `"company":"Acme"`)
	assert.Contains(t, string(jsonBytes), `"start_date":"2020-01"`)
	assert.Contains(t, string(jsonBytes), `"is_visible":true`)

	var decoded ResumeSection
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, section.Content.Experiences, decoded.Content.Experiences)
}

func TestSectionContent_CustomPassthrough(t *testing.T) {
	raw := json.RawMessage(`{"anything":["goes",1]}`)
	section := ResumeSection{
		ID:      "c1",
		Type:    SectionCustom,
		Content: SectionContent{Custom: raw},
	}
	require.NoError(t, section.CheckContent())

	jsonBytes, err := json.Marshal(section)
	require.NoError(t, err)

	var decoded ResumeSection
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.JSONEq(t, string(raw), string(decoded.Content.Custom))
}
