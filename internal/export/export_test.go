package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmap/internal/types"
)

func TestWriteMergeTree(t *testing.T) {
	d := &types.Dendrogram{
		Tokens: []string{"excel", "python", "sql"},
		Merges: []types.MergeEvent{
			{Step: 0, LeftID: 1, RightID: 2, Distance: 0, Size: 2},
			{Step: 1, LeftID: 0, RightID: 3, Distance: 1, Size: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMergeTree(&buf, d))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "step,left_id,right_id,distance,size", lines[0])
	assert.Equal(t, "0,1,2,0,2", lines[1])
	assert.Equal(t, "1,0,3,1,3", lines[2])
}

func TestWriteAssignments(t *testing.T) {
	a := &types.Assignments{
		Clusters: 2,
		Members: []types.Assignment{
			{Token: "excel", Cluster: 0},
			{Token: "python", Cluster: 1},
			{Token: "sql", Cluster: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAssignments(&buf, a))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "token,cluster", lines[0])
	assert.Equal(t, "excel,0", lines[1])
	assert.Equal(t, "python,1", lines[2])
	assert.Equal(t, "sql,1", lines[3])
}

func TestWriteJobsQuotesDescriptions(t *testing.T) {
	jobs := []types.ScrapedJob{
		{
			ID:          "j1",
			Title:       "Data Scientist",
			Company:     "Acme, Ltd",
			Location:    "Leeds",
			Rating:      4.2,
			Description: "Line one\nLine two",
			SourceURL:   "https://example.com/job/1",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJobs(&buf, jobs))

	out := buf.String()
	assert.Contains(t, out, `"Acme, Ltd"`)
	assert.Contains(t, out, "\"Line one\nLine two\"")
	assert.Contains(t, out, "4.2")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merges.csv")
	d := &types.Dendrogram{Tokens: []string{"python"}}

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return WriteMergeTree(w, d)
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "step,left_id,right_id")
}
