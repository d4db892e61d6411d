package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/skillmap/internal/extraction"
)

const suggestPrompt = `Extract the technical skills, tools and technologies
mentioned in the job listing below. Respond with a JSON array of short
lowercase skill names, nothing else.

Job listing:
%s`

// Suggester produces skill tokens from free text via an LLM.
type Suggester interface {
	SuggestSkills(ctx context.Context, text string) ([]string, error)
}

// SuggestSkills asks the model for skill names in a listing and returns them
// normalized, deduplicated and sorted. Tokens already known to the pattern
// extractor are kept too; callers merge the result with pattern output.
func (c *Client) SuggestSkills(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	raw, err := c.GenerateJSON(ctx, fmt.Sprintf(suggestPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("skill suggestion failed: %w", err)
	}
	return parseSuggestions(raw)
}

// parseSuggestions decodes the model's JSON array and normalizes each entry.
func parseSuggestions(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("failed to parse skill suggestions: %w", err)
	}

	tokens := extraction.NormalizeTokens(names)
	sort.Strings(tokens)
	return tokens, nil
}
