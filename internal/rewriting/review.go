package rewriting

import (
	"regexp"
	"strings"
)

// lengthTolerance is how far a rewritten section may drift from the original
// character count before it is flagged.
const lengthTolerance = 0.35

// Common strong action verbs for resume bullets (heuristic check)
var strongVerbs = map[string]bool{
	"achieved": true, "architected": true, "built": true, "created": true,
	"delivered": true, "designed": true, "developed": true, "engineered": true,
	"implemented": true, "improved": true, "increased": true, "launched": true,
	"led": true, "optimized": true, "reduced": true, "scaled": true,
	"shipped": true, "transformed": true,
}

var wordPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#.\-]*`)

// ReviewResult records how faithfully a generator response followed its plan.
// It is advisory; callers decide whether a flagged response is still usable.
type ReviewResult struct {
	BulletCountKept bool `json:"bullet_count_kept"`
	LengthKept      bool `json:"length_kept"`

	// ShortfallKeywords lists planned keywords that appear fewer times than
	// the plan requested, in priority order.
	ShortfallKeywords []string `json:"shortfall_keywords,omitempty"`

	// OverloadedBullets indexes bullets that took on more new keywords than
	// the plan's per-bullet cap.
	OverloadedBullets []int `json:"overloaded_bullets,omitempty"`

	// WeakBullets indexes bullets that do not open with an action verb.
	WeakBullets []int `json:"weak_bullets,omitempty"`
}

// Clean reports whether the response passed every check.
func (r *ReviewResult) Clean() bool {
	return r.BulletCountKept && r.LengthKept &&
		len(r.ShortfallKeywords) == 0 &&
		len(r.OverloadedBullets) == 0 &&
		len(r.WeakBullets) == 0
}

// ReviewResponse checks a generator response against the request it answered:
// bullet count preserved, planned keywords worked in the requested number of
// times, no bullet stuffed past the per-bullet cap, bullets led by action
// verbs, and overall length close to the original.
func ReviewResponse(req *Request, resp *Response) *ReviewResult {
	result := &ReviewResult{
		BulletCountKept: len(resp.Bullets) == len(req.Bullets),
		LengthKept:      checkLength(req.Bullets, resp.Bullets),
	}

	counts := make(map[string]int, len(req.Plan.TargetKeywordDistribution))
	originalHas := make(map[string]bool, len(req.Plan.TargetKeywordDistribution))
	original := strings.ToLower(strings.Join(req.Bullets, "\n"))
	for token := range req.Plan.TargetKeywordDistribution {
		originalHas[token] = countOccurrences(original, token) > 0
	}

	for i, bullet := range resp.Bullets {
		lower := strings.ToLower(bullet)

		newInBullet := 0
		for token := range req.Plan.TargetKeywordDistribution {
			n := countOccurrences(lower, token)
			counts[token] += n
			if n > 0 && !originalHas[token] {
				newInBullet += n
			}
		}
		if newInBullet > req.Plan.MaxPerBullet {
			result.OverloadedBullets = append(result.OverloadedBullets, i)
		}

		if !startsWithStrongVerb(lower) {
			result.WeakBullets = append(result.WeakBullets, i)
		}
	}

	for _, token := range req.Plan.PriorityOrder {
		if counts[token] < req.Plan.TargetKeywordDistribution[token] {
			result.ShortfallKeywords = append(result.ShortfallKeywords, token)
		}
	}

	return result
}

// countOccurrences counts whole-word matches of token in lowered text.
func countOccurrences(textLower, token string) int {
	n := 0
	for _, word := range wordPattern.FindAllString(textLower, -1) {
		if word == token {
			n++
		}
	}
	return n
}

// startsWithStrongVerb checks if a bullet opens with an action verb.
func startsWithStrongVerb(textLower string) bool {
	words := strings.Fields(textLower)
	if len(words) == 0 {
		return false
	}

	first := strings.TrimRight(words[0], ".,!?;:")
	if strongVerbs[first] {
		return true
	}

	// Past-tense verbs ending in -ed are usually fine even when not listed.
	return strings.HasSuffix(first, "ed") && len(first) > 3
}

// checkLength compares total character counts within tolerance. Empty
// originals are never flagged.
func checkLength(before, after []string) bool {
	origLen := len(strings.Join(before, "\n"))
	if origLen == 0 {
		return true
	}

	newLen := len(strings.Join(after, "\n"))
	drift := float64(newLen-origLen) / float64(origLen)
	if drift < 0 {
		drift = -drift
	}
	return drift <= lengthTolerance
}
