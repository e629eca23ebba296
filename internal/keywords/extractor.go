package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-aligner/internal/types"
)

const (
	// maxFrequency caps the frequency contribution of a single term so one
	// heavily repeated word cannot dominate the weight ordering.
	maxFrequency = 5

	// earlyPositionBonus is added when a term first appears in the opening
	// quarter of the text. JD openings name the skills that matter most.
	earlyPositionBonus = 0.5

	// weightCap bounds the final weight of any keyword.
	weightCap = 8.0

	// maxItemLen bounds list items and phrases accepted as keywords.
	maxItemLen = 40
)

var (
	capitalizedPhraseRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9+#.]*(?:[ \t]+[A-Z][A-Za-z0-9+#.]*)+\b`)
	listSplitRe         = regexp.MustCompile(`[,;/|•]+`)
	yearLikeRe          = regexp.MustCompile(`\d{3,}`)
)

// candidate tracks one keyword during extraction.
type candidate struct {
	token    string
	count    int
	firstPos int
}

// Extract returns the deduplicated, weighted keyword set of text, ordered by
// first appearance. Identical input always produces identical output.
func Extract(text string) []types.Keyword {
	if strings.TrimSpace(text) == "" {
		return []types.Keyword{}
	}

	lower := strings.ToLower(text)
	found := make(map[string]*candidate)

	add := func(token string, count, firstPos int) {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" || count == 0 {
			return
		}
		if existing, ok := found[token]; ok {
			if firstPos < existing.firstPos {
				existing.firstPos = firstPos
			}
			if count > existing.count {
				existing.count = count
			}
			return
		}
		found[token] = &candidate{token: token, count: count, firstPos: firstPos}
	}

	// Curated dictionary, word-boundary scan.
	for _, term := range techTerms {
		count, first := countBounded(lower, term)
		add(term, count, first)
	}

	// Capitalized multi-word phrases ("Machine Learning", "Site Reliability").
	// A capital that merely opens a sentence is ordinary prose, so the leading
	// word of a sentence-initial match is dropped; what remains must still be
	// a multi-word phrase to count.
	for _, loc := range capitalizedPhraseRe.FindAllStringIndex(text, -1) {
		phrase := text[loc[0]:loc[1]]
		if startsSentence(text, loc[0]) {
			cut := strings.IndexAny(phrase, " \t")
			phrase = strings.TrimLeft(phrase[cut:], " \t")
			if !strings.ContainsAny(phrase, " \t") {
				continue
			}
		}
		if len(phrase) > maxItemLen || allStopWords(phrase) {
			continue
		}
		lowerPhrase := strings.ToLower(phrase)
		count, first := countBounded(lower, lowerPhrase)
		add(lowerPhrase, count, first)
	}

	// Comma/bullet lists following header words ("Skills: Go, SQL, Docker").
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		for _, item := range listItems(line) {
			count, first := countBounded(lower, item)
			if count == 0 {
				// Item may contain punctuation the boundary scan rejects;
				// fall back to its position within this line.
				count, first = 1, offset
			}
			add(item, count, first)
		}
		offset += len(line) + 1
	}

	// Deterministic ordering: first appearance in the text, token as
	// tie-break.
	ordered := make([]*candidate, 0, len(found))
	for _, c := range found {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].firstPos != ordered[j].firstPos {
			return ordered[i].firstPos < ordered[j].firstPos
		}
		return ordered[i].token < ordered[j].token
	})

	earlyCutoff := len(text) / 4
	out := make([]types.Keyword, 0, len(ordered))
	for _, c := range ordered {
		freq := c.count
		if freq > maxFrequency {
			freq = maxFrequency
		}
		weight := float64(freq)
		if c.firstPos <= earlyCutoff {
			weight += earlyPositionBonus
		}
		if weight > weightCap {
			weight = weightCap
		}
		out = append(out, types.Keyword{Token: c.token, Weight: weight})
	}
	return out
}

// countBounded counts word-boundary occurrences of term in lower and returns
// the count and the offset of the first hit (-1 when absent). Boundaries are
// any non-alphanumeric neighbors, so "go" does not match inside "mongodb"
// while "c++" and "node.js" match verbatim.
func countBounded(lower, term string) (int, int) {
	count, first := 0, -1
	for start := 0; ; {
		idx := strings.Index(lower[start:], term)
		if idx < 0 {
			break
		}
		abs := start + idx
		if boundaryBefore(lower, abs) && boundaryAfter(lower, abs+len(term)) {
			count++
			if first < 0 {
				first = abs
			}
		}
		start = abs + len(term)
	}
	return count, first
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := rune(s[idx-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r := rune(s[idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// startsSentence reports whether the character at idx begins a sentence:
// the start of the text, a new line, or text following sentence-ending or
// list punctuation.
func startsSentence(s string, idx int) bool {
	prev := strings.TrimRight(s[:idx], " \t")
	if prev == "" {
		return true
	}
	switch r, _ := utf8.DecodeLastRuneInString(prev); r {
	case '\n', '\r', '.', '!', '?', ':', ';', '-', '–', '•':
		return true
	}
	return false
}

// allStopWords reports whether every word of a phrase is a stop word.
func allStopWords(phrase string) bool {
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !stopWords[w] {
			return false
		}
	}
	return true
}

// listItems extracts candidate keywords from a line that starts with a list
// header word followed by a colon, e.g. "Requirements: Go, Docker, SQL".
func listItems(line string) []string {
	lower := strings.ToLower(line)
	colon := strings.Index(line, ":")
	if colon < 0 {
		return nil
	}
	head := strings.TrimSpace(lower[:colon])
	matched := false
	for _, h := range listHeaderWords {
		if strings.HasSuffix(head, h) || head == h {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	var items []string
	for _, part := range listSplitRe.Split(line[colon+1:], -1) {
		item := strings.TrimSpace(part)
		if item == "" || len(item) > maxItemLen {
			continue
		}
		if yearLikeRe.MatchString(item) || strings.Contains(item, "@") {
			continue
		}
		if stopWords[strings.ToLower(item)] {
			continue
		}
		items = append(items, item)
	}
	return items
}
