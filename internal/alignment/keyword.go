package alignment

import (
	"strings"

	"github.com/jonathan/resume-aligner/internal/types"
)

// keywordScore holds the outcome of keyword-mode matching: which JD keywords
// the resume covers, found via stem-insensitive matching.
type keywordScore struct {
	total    int
	matched  map[string]bool
	coverage float64
}

// scoreKeyword matches every JD keyword against the resume bullets. Coverage
// is |matched| / |keywords|; zero keywords yields zero coverage.
func scoreKeyword(bullets []types.SectionBullet, jd *types.JobDescription) *keywordScore {
	ks := &keywordScore{
		total:   len(jd.Keywords),
		matched: make(map[string]bool, len(jd.Keywords)),
	}
	if ks.total == 0 {
		return ks
	}

	resumeText := joinBullets(bullets)
	resumeStems := stemSet(resumeText)

	found := 0
	for _, kw := range jd.Keywords {
		if matchesText(kw.Token, resumeStems, resumeText) {
			ks.matched[kw.Token] = true
			found++
		}
	}
	ks.coverage = float64(found) / float64(ks.total)
	return ks
}

// lineMatches computes the per-JD-line best bullet under keyword mode: the
// bullet containing the most of that line's constituent keywords. Similarity
// is the fraction of the line's keywords the winning bullet contains.
func (ks *keywordScore) lineMatches(jd *types.JobDescription, bullets []types.SectionBullet) []types.LineMatch {
	matches := make([]types.LineMatch, 0, len(jd.Lines))
	for li, line := range jd.Lines {
		match := types.LineMatch{JDLineIndex: li, BestBulletIndex: -1}

		lineKWs := lineKeywords(line.Text, jd)
		if len(lineKWs) == 0 {
			matches = append(matches, match)
			continue
		}

		bestCount := 0
		bestSlice := -1
		for bi, bullet := range bullets {
			count := 0
			bulletStems := stemSet(bullet.Text)
			for _, token := range lineKWs {
				if matchesText(token, bulletStems, strings.ToLower(bullet.Text)) {
					count++
				}
			}
			if count == 0 {
				continue
			}
			if bestSlice < 0 || count > bestCount ||
				(count == bestCount && tieBreak(bullets[bi], bullets[bestSlice])) {
				bestCount = count
				bestSlice = bi
			}
		}

		if bestSlice >= 0 {
			match.BestBulletIndex = bullets[bestSlice].BulletIndex
			match.Similarity = types.RoundScore(float64(bestCount) / float64(len(lineKWs)))
		}
		matches = append(matches, match)
	}
	return matches
}

// tieBreak reports whether candidate beats current under the deterministic
// tie-break: earlier section priority, then longer bullet text.
func tieBreak(candidate, current types.SectionBullet) bool {
	if candidate.SectionType.MatchPriority() != current.SectionType.MatchPriority() {
		return candidate.SectionType.MatchPriority() < current.SectionType.MatchPriority()
	}
	return len(candidate.Text) > len(current.Text)
}

// lineKeywords returns the JD keywords appearing in one JD line, in keyword
// set order.
func lineKeywords(lineText string, jd *types.JobDescription) []string {
	lower := strings.ToLower(lineText)
	stems := stemSet(lineText)

	var out []string
	for _, kw := range jd.Keywords {
		if matchesText(kw.Token, stems, lower) {
			out = append(out, kw.Token)
		}
	}
	return out
}

// matchesText reports whether a keyword token occurs in the given text,
// insensitive to simple inflections. Multi-word tokens use a substring
// check; single tokens compare stems.
func matchesText(token string, textStems map[string]bool, lowerText string) bool {
	if strings.ContainsRune(token, ' ') {
		return strings.Contains(lowerText, token)
	}
	return textStems[stem(token)]
}

// stem strips common English inflection suffixes. It is intentionally crude:
// enough that "containers" matches "container" and "deploying" matches
// "deploys", without pulling in a full stemmer.
func stem(word string) string {
	word = strings.ToLower(word)
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// stemSet tokenizes text and returns the set of stems it contains.
func stemSet(text string) map[string]bool {
	stems := make(map[string]bool)
	for _, tok := range splitTokens(text) {
		stems[stem(tok)] = true
	}
	return stems
}

// splitTokens lowercases text and splits it into word tokens, keeping tech
// punctuation (c++, c#, node.js) inside tokens.
func splitTokens(text string) []string {
	var out []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			out = append(out, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#', r == '.':
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

func joinBullets(bullets []types.SectionBullet) string {
	var sb strings.Builder
	for _, b := range bullets {
		sb.WriteString(strings.ToLower(b.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}
