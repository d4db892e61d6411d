package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmap/internal/types"
)

func workedDendrogram(t *testing.T) *types.Dendrogram {
	t.Helper()
	m := buildMatrix(t,
		[]string{"python", "sql"},
		[]string{"python", "sql"},
		[]string{"excel"},
	)
	dm, err := FromCooccurrence(context.Background(), m)
	require.NoError(t, err)
	d, err := Cluster(dm, LinkageAverage)
	require.NoError(t, err)
	return d
}

func TestCutByCountWorkedExample(t *testing.T) {
	d := workedDendrogram(t)

	a, err := CutByCount(d, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Clusters)

	groups := a.ByCluster()
	assert.Equal(t, []string{"excel"}, groups[0])
	assert.Equal(t, []string{"python", "sql"}, groups[1])
}

func TestCutByCountExtremes(t *testing.T) {
	d := workedDendrogram(t)

	t.Run("k equals vocabulary size yields singletons", func(t *testing.T) {
		a, err := CutByCount(d, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, a.Clusters)
		for _, g := range a.ByCluster() {
			assert.Len(t, g, 1)
		}
	})

	t.Run("k equals 1 yields one cluster with every token", func(t *testing.T) {
		a, err := CutByCount(d, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, a.Clusters)
		assert.Equal(t, []string{"excel", "python", "sql"}, a.ByCluster()[0])
	})
}

func TestCutByCountRejectsOutOfRange(t *testing.T) {
	d := workedDendrogram(t)

	for _, k := range []int{0, -1, 4} {
		_, err := CutByCount(d, k)
		assert.Error(t, err, "k=%d must be rejected", k)
	}
}

func TestCutByThreshold(t *testing.T) {
	d := workedDendrogram(t)

	tests := []struct {
		name     string
		t        float64
		clusters int
	}{
		{"zero keeps only exact co-occurrence merges", 0, 2},
		{"below final merge distance", 0.5, 2},
		{"at final merge distance", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := CutByThreshold(d, tt.t)
			require.NoError(t, err)
			assert.Equal(t, tt.clusters, a.Clusters)
		})
	}
}

func TestCutByThresholdRejectsNegative(t *testing.T) {
	_, err := CutByThreshold(workedDendrogram(t), -0.1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestCutEmptyDendrogram(t *testing.T) {
	empty := &types.Dendrogram{}

	a, err := CutByCount(empty, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Clusters)
	assert.Empty(t, a.Members)

	a, err = CutByThreshold(empty, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Clusters)
}

func TestCutDeterminism(t *testing.T) {
	d := workedDendrogram(t)
	first, err := CutByCount(d, 2)
	require.NoError(t, err)
	second, err := CutByCount(d, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
