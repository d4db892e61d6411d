package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain JSON", `["python"]`, `["python"]`},
		{"json fence", "```json\n[\"python\"]\n```", `["python"]`},
		{"bare fence", "```\n[\"python\"]\n```", `["python"]`},
		{"language identifier", "```javascript\n[\"js\"]\n```", `["js"]`},
		{"surrounding whitespace", "  [\"sql\"]  ", `["sql"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestParseSuggestions(t *testing.T) {
	tokens, err := parseSuggestions(`["Python", "SKLearn", "python", "Power BI"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"powerbi", "python", "scikit-learn"}, tokens)
}

func TestParseSuggestionsRejectsNonArray(t *testing.T) {
	_, err := parseSuggestions(`{"skills": ["python"]}`)
	assert.Error(t, err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.Error(t, err)
}
