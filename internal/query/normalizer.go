// Package query maps free-text questions to short search terms for the
// external source chain.
package query

import "strings"

// rule pairs a predicate over the lowercased question with the ordered terms
// to emit when it matches. Rules are evaluated in order; the first match wins.
type rule struct {
	name  string
	match func(q string) bool
	terms func(q string) []string
}

var rules = []rule{
	{
		name:  "business trends",
		match: func(q string) bool { return containsAll(q, "business", "trends") },
		terms: func(q string) []string {
			return []string{"business trends", "market trends", "economic trends", "industry trends", "business", "economics"}
		},
	},
	{
		name:  "productivity",
		match: func(q string) bool { return containsAny(q, productivityWords...) },
		terms: func(q string) []string {
			terms := matchedWords(q, productivityWords)
			return append(terms, "management", "business", "organization", "work")
		},
	},
	{
		name:  "digital transformation",
		match: func(q string) bool { return containsAll(q, "digital", "transformation") },
		terms: func(q string) []string {
			return []string{"digital transformation", "technology adoption", "business innovation", "digitalization", "technology", "innovation", "automation"}
		},
	},
	{
		name:  "professional development",
		match: func(q string) bool { return containsAll(q, "professional", "development") },
		terms: func(q string) []string {
			return []string{"professional development", "training", "skills development", "career development", "education", "learning"}
		},
	},
}

var productivityWords = []string{"productivity", "teamwork", "collaboration", "efficiency", "performance"}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "but": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "explain": {}, "for": {}, "give": {},
	"how": {}, "is": {}, "like": {}, "me": {}, "of": {}, "or": {}, "our": {},
	"should": {}, "tell": {}, "the": {}, "to": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "with": {}, "would": {}, "you": {},
}

// Normalize returns candidate search terms for a question, most specific
// first. It never fails; an empty question (or one made entirely of stop
// words) yields an empty list, which callers treat as "no external lookup".
func Normalize(question string) []string {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return nil
	}

	for _, r := range rules {
		if r.match(q) {
			return r.terms(q)
		}
	}

	// Generic fallback: strip stop words and join what remains.
	var kept []string
	for _, word := range strings.Fields(q) {
		word = strings.Trim(word, "?!.,;:\"'()")
		if word == "" || len(word) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return nil
	}
	return []string{strings.Join(kept, " ")}
}

func containsAll(q string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(q, w) {
			return false
		}
	}
	return true
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func matchedWords(q string, words []string) []string {
	var out []string
	for _, w := range words {
		if strings.Contains(q, w) {
			out = append(out, w)
		}
	}
	return out
}
