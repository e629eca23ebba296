// Package rewriting plans how missing JD keywords should be worked into a
// resume section and hands the plan to an external text generator. It never
// produces rewritten prose itself.
package rewriting

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-aligner/internal/types"
)

const (
	// DefaultMaxPerBullet caps how many new keywords one bullet may be asked
	// to absorb. Anything higher reads as keyword stuffing.
	DefaultMaxPerBullet = 3

	// DefaultStyle is the writing style requested from the generator when
	// none is configured.
	DefaultStyle = "professional"
)

// Plan is the instruction payload handed to the external generator. It
// describes what to work in, not how the prose should read.
type Plan struct {
	Section                   types.SectionType `json:"section"`
	TargetKeywordDistribution map[string]int    `json:"target_keyword_distribution"`
	PriorityOrder             []string          `json:"priority_order"`
	Style                     string            `json:"style"`
	MaxPerBullet              int               `json:"max_per_bullet"`
	BulletCount               int               `json:"bullet_count"`
}

// PlanOptions configures plan building.
type PlanOptions struct {
	MaxPerBullet int
	Style        string
}

// BuildPlan allocates keyword slots across a section's bullets. Slots are
// assigned proportional to keyword weight, highest-weight keywords first,
// bounded so no bullet is asked to absorb more than MaxPerBullet new
// keywords. Keywords the resume already has are skipped.
func BuildPlan(section types.Section, missing []types.Keyword, resumeSkills []string, opts PlanOptions) *Plan {
	if opts.MaxPerBullet <= 0 {
		opts.MaxPerBullet = DefaultMaxPerBullet
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}

	plan := &Plan{
		Section:                   section.Type,
		TargetKeywordDistribution: map[string]int{},
		PriorityOrder:             []string{},
		Style:                     opts.Style,
		MaxPerBullet:              opts.MaxPerBullet,
		BulletCount:               len(section.Bullets),
	}

	candidates := filterPresent(missing, resumeSkills)
	if len(candidates) == 0 || len(section.Bullets) == 0 {
		return plan
	}

	// Highest weight first; input order breaks ties so plans are stable.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight > candidates[j].Weight
	})

	totalSlots := len(section.Bullets) * opts.MaxPerBullet
	totalWeight := 0.0
	for _, kw := range candidates {
		totalWeight += kw.Weight
	}

	remaining := totalSlots
	for _, kw := range candidates {
		if remaining == 0 {
			break
		}
		// Proportional share, at least one slot for any keyword that made
		// the cut, never more than one slot per bullet for a single keyword.
		share := int(kw.Weight/totalWeight*float64(totalSlots) + 0.5)
		if share < 1 {
			share = 1
		}
		if share > len(section.Bullets) {
			share = len(section.Bullets)
		}
		if share > remaining {
			share = remaining
		}
		plan.TargetKeywordDistribution[kw.Token] = share
		plan.PriorityOrder = append(plan.PriorityOrder, kw.Token)
		remaining -= share
	}

	return plan
}

// TotalSlots returns the number of keyword insertions the plan requests.
func (p *Plan) TotalSlots() int {
	total := 0
	for _, n := range p.TargetKeywordDistribution {
		total += n
	}
	return total
}

// filterPresent drops keywords the resume already lists as skills.
func filterPresent(missing []types.Keyword, resumeSkills []string) []types.Keyword {
	present := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		present[strings.ToLower(strings.TrimSpace(s))] = true
	}

	out := make([]types.Keyword, 0, len(missing))
	for _, kw := range missing {
		if !present[strings.ToLower(kw.Token)] {
			out = append(out, kw)
		}
	}
	return out
}
