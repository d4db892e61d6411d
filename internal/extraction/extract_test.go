package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "basic skills",
			text:     "Strong Python and SQL experience required.",
			expected: []string{"python", "sql"},
		},
		{
			name:     "aliases map to canonical tokens",
			text:     "We use Golang, k8s and Power BI daily.",
			expected: []string{"go", "kubernetes", "powerbi"},
		},
		{
			name:     "symbol-bearing names",
			text:     "Expertise in C++ or C# is a plus.",
			expected: []string{"c++", "c#"},
		},
		{
			name:     "word boundaries respected",
			text:     "Our marketing team runs gopherconference booths.",
			expected: nil,
		},
		{
			name:     "phrases",
			text:     "Experience with machine learning and natural language processing.",
			expected: []string{"machine-learning", "nlp"},
		},
		{
			name:     "library mentions roll up",
			text:     "Daily work with pandas, numpy and scikit-learn.",
			expected: []string{"numpy", "pandas", "scikit-learn"},
		},
		{
			name:     "case insensitive",
			text:     "TABLEAU dashboards and excel reports.",
			expected: []string{"excel", "tableau"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   \n\t  ",
			expected: nil,
		},
		{
			name:     "duplicate mentions count once",
			text:     "Python, python and more Python.",
			expected: []string{"python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTokens(tt.text)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

func TestExtractTokensIsSorted(t *testing.T) {
	got := ExtractTokens("SQL before Python before Excel in this sentence.")
	assert.Equal(t, []string{"excel", "python", "sql"}, got)
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Golang", "go"},
		{"  Python  ", "python"},
		{"Power   BI", "powerbi"},
		{"Amazon Web Services", "aws"},
		{"postgres", "postgresql"},
		{"", ""},
		{"   ", ""},
		{"Distributed Systems", "distributed systems"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeToken(tt.input))
		})
	}
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"Golang", "go", "Python", "", "  "})
	assert.Equal(t, []string{"go", "python"}, got)
}

func TestKnownTokensSortedAndNonEmpty(t *testing.T) {
	tokens := KnownTokens()
	assert.NotEmpty(t, tokens)
	assert.IsIncreasing(t, tokens)
}
