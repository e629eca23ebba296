package alignment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-aligner/internal/embedding"
	"github.com/jonathan/resume-aligner/internal/types"
)

// SemanticGapThreshold is the floor for semantic mode: a keyword counts as
// missing when its best embedding similarity against any bullet falls below
// it. Keyword and hybrid modes use the lexical match directly.
const SemanticGapThreshold = 0.35

// maxSuggestedKeywords bounds how many missing keywords a suggestion names.
const maxSuggestedKeywords = 3

// missingKeywords returns the JD keywords the resume does not cover, ordered
// by JD weight descending. The returned tokens are always a subset of the JD
// keyword set.
func (s *Scorer) missingKeywords(ctx context.Context, mode types.AlignmentMode, jd *types.JobDescription, kw *keywordScore, bullets []types.SectionBullet) []string {
	if len(jd.Keywords) == 0 {
		return []string{}
	}

	var missing []types.Keyword
	if mode == types.ModeSemantic && s.provider != nil && len(bullets) > 0 {
		missing = s.semanticGaps(ctx, jd, kw, bullets)
	} else {
		for _, k := range jd.Keywords {
			if !kw.matched[k.Token] {
				missing = append(missing, k)
			}
		}
	}

	// Weight descending; extraction order breaks ties for determinism.
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Weight > missing[j].Weight
	})

	out := make([]string, len(missing))
	for i, k := range missing {
		out[i] = k.Token
	}
	return out
}

// semanticGaps embeds each JD keyword and keeps those whose best bullet
// similarity falls below the semantic threshold. Keywords already covered
// verbatim are never reported missing; keywords whose embedding fails fall
// back to the lexical match verdict.
func (s *Scorer) semanticGaps(ctx context.Context, jd *types.JobDescription, kw *keywordScore, bullets []types.SectionBullet) []types.Keyword {
	bulletVecs, _ := s.embedAll(ctx, bulletTexts(bullets))

	var missing []types.Keyword
	for _, k := range jd.Keywords {
		if kw.matched[k.Token] {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.opts.EmbedTimeout)
		kvec, err := s.provider.Embed(callCtx, k.Token)
		cancel()
		if err != nil {
			missing = append(missing, k)
			continue
		}

		best := 0.0
		for _, bv := range bulletVecs {
			if bv == nil {
				continue
			}
			if sim := embedding.Similarity(kvec, bv); sim > best {
				best = sim
			}
		}
		if best < SemanticGapThreshold {
			missing = append(missing, k)
		}
	}
	return missing
}

// buildSuggestions derives short advisory strings from a result. They are
// presentation hints only; the rewrite plan is the actionable output.
func buildSuggestions(result *types.AlignmentResult, jd *types.JobDescription) []string {
	var out []string
	if len(jd.Lines) == 0 {
		return out
	}
	if result.OverallScore < 0.5 {
		out = append(out, "Consider adding more relevant technical skills")
	}
	if n := len(result.MissingKeywords); n > 0 {
		top := result.MissingKeywords
		if len(top) > maxSuggestedKeywords {
			top = top[:maxSuggestedKeywords]
		}
		out = append(out, fmt.Sprintf("Add experience with: %s", strings.Join(top, ", ")))
	}
	if result.Degraded {
		out = append(out, "Semantic scoring was unavailable; this analysis used keyword matching only")
	}
	return out
}
