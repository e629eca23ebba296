// Package types provides type definitions for structured data used throughout the resume-aligner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionType identifies the kind of resume section a block of text belongs to.
type SectionType string

// Recognized resume section types. Anything that cannot be classified falls
// into SectionOther.
const (
	SectionContact    SectionType = "contact"
	SectionSummary    SectionType = "summary"
	SectionExperience SectionType = "experience"
	SectionEducation  SectionType = "education"
	SectionSkills     SectionType = "skills"
	SectionOther      SectionType = "other"
)

// MatchPriority returns the tie-break rank of a section type when two bullets
// score equally against a JD line. Lower is preferred.
func (s SectionType) MatchPriority() int {
	switch s {
	case SectionSummary:
		return 0
	case SectionExperience:
		return 1
	case SectionSkills:
		return 2
	default:
		return 3
	}
}

// Bullet represents one resume content line, typically an accomplishment statement.
type Bullet struct {
	Text string `json:"text"`
}

// Section represents one contiguous block of a resume under a single heading.
type Section struct {
	Type    SectionType `json:"type"`
	RawText string      `json:"raw_text"`
	Bullets []Bullet    `json:"bullets"`
}

// ResumeDocument represents a parsed resume as an ordered list of sections.
type ResumeDocument struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

// AllBullets returns every bullet in document order along with the section it
// came from. The returned order is stable across calls.
func (d *ResumeDocument) AllBullets() []SectionBullet {
	var out []SectionBullet
	for si, sec := range d.Sections {
		for bi, b := range sec.Bullets {
			out = append(out, SectionBullet{
				SectionIndex: si,
				SectionType:  sec.Type,
				BulletIndex:  len(out),
				LocalIndex:   bi,
				Text:         b.Text,
			})
		}
	}
	return out
}

// SectionBullet is a bullet annotated with its position in the document.
// BulletIndex is the flattened, document-wide index used in alignment results.
type SectionBullet struct {
	SectionIndex int         `json:"section_index"`
	SectionType  SectionType `json:"section_type"`
	BulletIndex  int         `json:"bullet_index"`
	LocalIndex   int         `json:"local_index"`
	Text         string      `json:"text"`
}
