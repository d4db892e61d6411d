// Package extraction turns raw job-listing text into normalized skill tokens.
package extraction

import "strings"

// aliasNormalizations maps common skill name variants to canonical tokens.
// Canonical tokens are lowercase so that vocabulary ordering is stable.
var aliasNormalizations = map[string]string{
	"golang":                      "go",
	"go lang":                     "go",
	"js":                          "javascript",
	"ts":                          "typescript",
	"k8s":                         "kubernetes",
	"postgres":                    "postgresql",
	"py":                          "python",
	"np":                          "numpy",
	"sklearn":                     "scikit-learn",
	"scikit learn":                "scikit-learn",
	"tf":                          "tensorflow",
	"amazon web services":         "aws",
	"google cloud":                "gcp",
	"google cloud platform":       "gcp",
	"microsoft azure":             "azure",
	"power bi":                    "powerbi",
	"ms excel":                    "excel",
	"microsoft excel":             "excel",
	"natural language processing": "nlp",
	"machine learning":            "machine-learning",
	"deep learning":               "deep-learning",
	"data viz":                    "visualization",
	"data visualisation":          "visualization",
	"data visualization":          "visualization",
}

// NormalizeToken normalizes a skill label to its canonical lowercase form.
// Returns the empty string for blank input.
func NormalizeToken(token string) string {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if normalized == "" {
		return ""
	}
	// Collapse internal runs of whitespace so multi-word aliases match.
	normalized = strings.Join(strings.Fields(normalized), " ")
	if canonical, ok := aliasNormalizations[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeTokens normalizes and deduplicates a token list, preserving the
// first-seen order of the canonical forms.
func NormalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		canonical := NormalizeToken(tok)
		if canonical == "" {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}
