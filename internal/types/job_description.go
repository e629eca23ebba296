// Package types provides type definitions for structured data used throughout the resume-aligner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Keyword represents a normalized token extracted from a job description with
// its importance weight (frequency plus position bonus, capped).
type Keyword struct {
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
}

// JDLine represents one non-empty line of a job description.
type JDLine struct {
	Text string `json:"text"`
}

// JobDescription represents the target text a resume is aligned against.
type JobDescription struct {
	ID       string    `json:"id"`
	RawText  string    `json:"raw_text"`
	Lines    []JDLine  `json:"lines"`
	Keywords []Keyword `json:"keyword_set"`
}

// KeywordTokens returns the keyword tokens in their extraction order.
func (jd *JobDescription) KeywordTokens() []string {
	tokens := make([]string, len(jd.Keywords))
	for i, kw := range jd.Keywords {
		tokens[i] = kw.Token
	}
	return tokens
}
