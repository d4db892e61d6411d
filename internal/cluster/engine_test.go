package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterWorkedExample(t *testing.T) {
	// L1:{python,sql} L2:{python,sql} L3:{excel}
	m := buildMatrix(t,
		[]string{"python", "sql"},
		[]string{"python", "sql"},
		[]string{"excel"},
	)
	dm, err := FromCooccurrence(context.Background(), m)
	require.NoError(t, err)

	d, err := Cluster(dm, LinkageAverage)
	require.NoError(t, err)

	// Tokens sorted: excel=0, python=1, sql=2.
	require.Equal(t, []string{"excel", "python", "sql"}, d.Tokens)
	require.Len(t, d.Merges, 2)

	// python and sql merge first at distance 0.
	first := d.Merges[0]
	assert.Equal(t, 0, first.Step)
	assert.Equal(t, 1, first.LeftID)
	assert.Equal(t, 2, first.RightID)
	assert.Equal(t, 0.0, first.Distance)
	assert.Equal(t, 2, first.Size)

	// excel joins last at distance 1 (never co-occurs).
	last := d.Merges[1]
	assert.Equal(t, 1.0, last.Distance)
	assert.Equal(t, 3, last.Size)
	assert.ElementsMatch(t, []string{"excel", "python", "sql"}, d.Members(last.Step+d.Leaves()))
}

func TestClusterMergeCount(t *testing.T) {
	m := buildMatrix(t,
		[]string{"python", "sql", "aws", "docker"},
		[]string{"python", "aws"},
		[]string{"sql", "excel", "tableau"},
		[]string{"docker", "kubernetes"},
	)
	dm, err := FromCooccurrence(context.Background(), m)
	require.NoError(t, err)

	for _, linkage := range []Linkage{LinkageSingle, LinkageComplete, LinkageAverage} {
		t.Run(string(linkage), func(t *testing.T) {
			d, err := Cluster(dm, linkage)
			require.NoError(t, err)
			assert.Len(t, d.Merges, d.Leaves()-1, "must record exactly n-1 merges")
		})
	}
}

func TestClusterMonotonicity(t *testing.T) {
	m := buildMatrix(t,
		[]string{"python", "sql", "aws"},
		[]string{"python", "sql"},
		[]string{"aws", "docker", "kubernetes"},
		[]string{"docker", "kubernetes"},
		[]string{"excel", "tableau"},
		[]string{"excel", "tableau", "powerbi"},
		[]string{"sql", "excel"},
	)
	dm, err := FromCooccurrence(context.Background(), m)
	require.NoError(t, err)

	// Merge distances must be non-decreasing for complete and average linkage.
	for _, linkage := range []Linkage{LinkageComplete, LinkageAverage} {
		t.Run(string(linkage), func(t *testing.T) {
			d, err := Cluster(dm, linkage)
			require.NoError(t, err)
			for i := 1; i < len(d.Merges); i++ {
				assert.GreaterOrEqual(t, d.Merges[i].Distance, d.Merges[i-1].Distance,
					"merge %d regressed below merge %d", i, i-1)
			}
		})
	}
}

func TestClusterDeterminism(t *testing.T) {
	m := buildMatrix(t,
		[]string{"python", "sql"},
		[]string{"aws", "docker"},
		[]string{"excel", "tableau"},
	)
	dm, err := FromCooccurrence(context.Background(), m)
	require.NoError(t, err)

	first, err := Cluster(dm, LinkageAverage)
	require.NoError(t, err)
	second, err := Cluster(dm, LinkageAverage)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce identical merge trees")

	// All three pairs merge at distance 0; the lexically lowest combined
	// member list (aws+docker) must win the first tie.
	require.NotEmpty(t, first.Merges)
	assert.ElementsMatch(t, []string{"aws", "docker"}, first.Members(first.Leaves()))
}

func TestClusterTrivialVocabularies(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		dm, err := FromCooccurrence(context.Background(), buildMatrix(t))
		require.NoError(t, err)
		d, err := Cluster(dm, LinkageAverage)
		require.NoError(t, err)
		assert.Empty(t, d.Tokens)
		assert.Empty(t, d.Merges)
	})

	t.Run("single token", func(t *testing.T) {
		dm, err := FromCooccurrence(context.Background(), buildMatrix(t, []string{"python"}))
		require.NoError(t, err)
		d, err := Cluster(dm, LinkageAverage)
		require.NoError(t, err)
		assert.Equal(t, []string{"python"}, d.Tokens)
		assert.Empty(t, d.Merges)
	})
}

func TestClusterRejectsInvalidMatrix(t *testing.T) {
	dm, err := FromCooccurrence(context.Background(), buildMatrix(t, []string{"python", "sql"}))
	require.NoError(t, err)
	dm.d[0][1] = -1

	_, err = Cluster(dm, LinkageAverage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precondition")
}

func TestClusterRejectsUnknownLinkage(t *testing.T) {
	dm, err := FromCooccurrence(context.Background(), buildMatrix(t, []string{"python", "sql"}))
	require.NoError(t, err)

	_, err = Cluster(dm, Linkage("ward"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ward")
}

func TestParseLinkage(t *testing.T) {
	tests := []struct {
		input   string
		want    Linkage
		wantErr bool
	}{
		{"single", LinkageSingle, false},
		{"complete", LinkageComplete, false},
		{"average", LinkageAverage, false},
		{"", LinkageAverage, false},
		{"ward", "", true},
		{"SINGLE", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLinkage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
