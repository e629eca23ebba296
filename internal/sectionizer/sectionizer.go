// Package sectionizer splits raw resume text into typed, ordered sections.
package sectionizer

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-aligner/internal/types"
)

// maxHeaderLen is the longest a line can be and still count as a section
// header. Body text routinely contains header words ("...years of experience
// with..."); requiring a short line avoids those false positives.
const maxHeaderLen = 60

// headerAliases maps normalized header phrases to canonical section types.
// Common misspellings are included so a typo in a heading does not swallow
// the whole section into its predecessor.
var headerAliases = map[string]types.SectionType{
	"contact":                 types.SectionContact,
	"contact information":     types.SectionContact,
	"contact info":            types.SectionContact,
	"summary":                 types.SectionSummary,
	"professional summary":    types.SectionSummary,
	"executive summary":       types.SectionSummary,
	"career summary":          types.SectionSummary,
	"profile":                 types.SectionSummary,
	"about me":                types.SectionSummary,
	"overview":                types.SectionSummary,
	"objective":               types.SectionSummary,
	"summery":                 types.SectionSummary,
	"sumary":                  types.SectionSummary,
	"proffesional summary":    types.SectionSummary,
	"experience":              types.SectionExperience,
	"work experience":         types.SectionExperience,
	"professional experience": types.SectionExperience,
	"relevant experience":     types.SectionExperience,
	"employment":              types.SectionExperience,
	"employment history":      types.SectionExperience,
	"work history":            types.SectionExperience,
	"career history":          types.SectionExperience,
	"experiance":              types.SectionExperience,
	"work experiance":         types.SectionExperience,
	"education":               types.SectionEducation,
	"academics":               types.SectionEducation,
	"academic background":     types.SectionEducation,
	"educatoin":               types.SectionEducation,
	"skills":                  types.SectionSkills,
	"technical skills":        types.SectionSkills,
	"key skills":              types.SectionSkills,
	"core competencies":       types.SectionSkills,
	"competencies":            types.SectionSkills,
	"skills & tools":          types.SectionSkills,
	"technology stack":        types.SectionSkills,
	"stack":                   types.SectionSkills,
}

var (
	bulletMarkerRe  = regexp.MustCompile(`^(?:[-•·*‣]|\d+[.)])\s+`)
	trailingPunctRe = regexp.MustCompile(`[:\-–—]+$`)
	spaceRe         = regexp.MustCompile(`\s+`)
)

// Sectionize splits raw resume text into an ordered list of typed sections.
// Lines between header matches accumulate as bullets of the current section.
// Text before the first recognized header, or all text when no header is
// recognized, lands in an "other" section. Empty input yields an empty list;
// Sectionize never fails.
func Sectionize(raw string) []types.Section {
	lines := cleanLines(raw)
	if len(lines) == 0 {
		return []types.Section{}
	}

	var sections []types.Section
	current := -1 // index into sections; -1 until the first content or header

	appendSection := func(t types.SectionType) {
		sections = append(sections, types.Section{Type: t})
		current = len(sections) - 1
	}

	for _, line := range lines {
		if t, ok := matchHeader(line); ok {
			appendSection(t)
			continue
		}
		if current == -1 {
			appendSection(types.SectionOther)
		}
		sec := &sections[current]
		if sec.RawText != "" {
			sec.RawText += "\n"
		}
		sec.RawText += line
		for _, b := range splitBullets(line) {
			sec.Bullets = append(sec.Bullets, types.Bullet{Text: b})
		}
	}

	// Headers with no body still appear in order but carry no bullets.
	return sections
}

// matchHeader reports whether a line is a strong section header: an exact
// alias phrase (after normalization) on a short line.
func matchHeader(line string) (types.SectionType, bool) {
	if len(line) > maxHeaderLen {
		return "", false
	}
	norm := normalizeHeader(line)
	if norm == "" || strings.HasSuffix(norm, ".") {
		return "", false
	}
	t, ok := headerAliases[norm]
	return t, ok
}

// normalizeHeader lowercases a candidate header and strips trailing
// punctuation decoration ("SKILLS:", "Experience —").
func normalizeHeader(line string) string {
	s := strings.TrimSpace(line)
	s = trailingPunctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// cleanLines normalizes line endings, collapses internal whitespace and drops
// blank lines.
func cleanLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var out []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = spaceRe.ReplaceAllString(strings.TrimSpace(ln), " ")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// splitBullets turns one physical line into bullet texts. Leading bullet
// markers are stripped; a line containing several "•"-separated fragments is
// split apart.
func splitBullets(line string) []string {
	line = bulletMarkerRe.ReplaceAllString(line, "")

	var out []string
	for _, part := range strings.Split(line, "•") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
