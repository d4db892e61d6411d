package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListings(t *testing.T) {
	data := []byte(`[
		{"id": "L1", "tokens": ["python", "sql"]},
		{"text": "Looking for Python and SQL skills."}
	]`)

	listings, err := ParseListings(data)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "L1", listings[0].ID)
	assert.Equal(t, []string{"python", "sql"}, listings[0].Tokens)

	assert.NotEmpty(t, listings[1].ID, "missing ids are auto-assigned")
	assert.Equal(t, "Looking for Python and SQL skills.", listings[1].Text)
}

func TestParseListingsRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an array", `{"id": "L1", "tokens": []}`},
		{"missing text and tokens", `[{"id": "L1"}]`},
		{"wrong token type", `[{"tokens": [1, 2]}]`},
		{"unknown field", `[{"text": "x", "salary": "high"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListings([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadListingsMissingFile(t *testing.T) {
	_, err := LoadListings(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadListingsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	content := "id,text\nL1,\"Python and SQL required\"\n,\"Excel only\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	listings, err := LoadListingsCSV(path)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "L1", listings[0].ID)
	assert.Equal(t, "Python and SQL required", listings[0].Text)
	assert.NotEmpty(t, listings[1].ID)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"crlf normalized", "a\r\nb", "a\nb"},
		{"spaces collapsed", "Python   and    SQL", "Python and SQL"},
		{"blank runs reduced", "a\n\n\n\nb", "a\n\nb"},
		{"trimmed", "  \n hello \n  ", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
