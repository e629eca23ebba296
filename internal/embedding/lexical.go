package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// lexicalDims is the dimensionality of the token-hash vectors produced by
// the lexical backend. Large enough that collisions rarely distort the
// overlap signal.
const lexicalDims = 512

// lexicalStopWords filters filler words so the overlap signal reflects
// content terms.
var lexicalStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "was": true, "were": true,
	"been": true, "has": true, "its": true, "but": true, "not": true,
	"all": true, "can": true, "use": true, "using": true, "used": true,
}

// LexicalProvider is the zero-configuration fallback backend. It hashes
// content tokens into a fixed-dimension binary vector; the cosine of two
// such vectors approximates the Jaccard overlap of their token sets. No
// network, no model, fully deterministic.
type LexicalProvider struct{}

// NewLexicalProvider returns the lexical-overlap fallback backend.
func NewLexicalProvider() *LexicalProvider {
	return &LexicalProvider{}
}

// Name identifies the backend.
func (p *LexicalProvider) Name() string { return "lexical" }

// Embed hashes each distinct content token of text into one of lexicalDims
// buckets and returns the resulting binary vector.
func (p *LexicalProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, lexicalDims)
	for token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%lexicalDims] = 1
	}
	return vec, nil
}

// tokenize lowercases text and splits it into content tokens of three or
// more characters, keeping tech-token punctuation (c++, c#, node.js).
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len(w) >= 3 && !lexicalStopWords[w] {
			tokens[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
