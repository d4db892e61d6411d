package cooccur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmap/internal/types"
)

func TestBuilderCounts(t *testing.T) {
	b := NewBuilder(PolicyExtend, nil)
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "sql"}}))
	require.NoError(t, b.Add(types.Listing{ID: "L2", Tokens: []string{"python", "sql"}}))
	require.NoError(t, b.Add(types.Listing{ID: "L3", Tokens: []string{"excel"}}))

	m := b.Build()

	assert.Equal(t, []string{"excel", "python", "sql"}, m.Tokens())
	assert.Equal(t, 3, m.Listings())
	assert.Equal(t, 2, m.Count("python", "sql"))
	assert.Equal(t, 2, m.Count("sql", "python"), "counts should be symmetric")
	assert.Equal(t, 0, m.Count("python", "excel"), "never co-occurring pairs count zero")
	assert.Equal(t, 0, m.Count("python", "python"), "diagonal is unused")
	assert.Equal(t, 2, m.Freq("python"))
	assert.Equal(t, 2, m.Freq("sql"))
	assert.Equal(t, 1, m.Freq("excel"))
}

func TestBuilderDeduplicatesWithinListing(t *testing.T) {
	b := NewBuilder(PolicyExtend, nil)
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "python", "sql", ""}}))

	m := b.Build()
	assert.Equal(t, 1, m.Count("python", "sql"))
	assert.Equal(t, 1, m.Freq("python"))
}

func TestBuilderEmptyListing(t *testing.T) {
	b := NewBuilder(PolicyExtend, nil)
	require.NoError(t, b.Add(types.Listing{ID: "L1"}))

	m := b.Build()
	assert.Empty(t, m.Tokens())
	assert.Equal(t, 1, m.Listings())
}

func TestStrictPolicyRejectsUndeclaredTokens(t *testing.T) {
	b := NewBuilder(PolicyStrict, []string{"python", "sql"})
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "sql"}}))

	err := b.Add(types.Listing{ID: "L2", Tokens: []string{"python", "excel"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excel")
	assert.Contains(t, err.Error(), "L2")

	// The rejected listing must contribute nothing.
	m := b.Build()
	assert.Equal(t, 1, m.Listings())
	assert.Equal(t, 1, m.Freq("python"))
	assert.Equal(t, []string{"python", "sql"}, m.Tokens())
}

func TestExtendPolicyRegistersNewTokens(t *testing.T) {
	b := NewBuilder(PolicyExtend, []string{"python"})
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "spark"}}))

	m := b.Build()
	assert.Equal(t, []string{"python", "spark"}, m.Tokens())
	assert.Equal(t, 1, m.Count("python", "spark"))
}

func TestBuildSnapshotIsIndependent(t *testing.T) {
	b := NewBuilder(PolicyExtend, nil)
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "sql"}}))

	first := b.Build()
	require.NoError(t, b.Add(types.Listing{ID: "L2", Tokens: []string{"python", "sql"}}))

	assert.Equal(t, 1, first.Count("python", "sql"), "earlier snapshot must not see later listings")
	assert.Equal(t, 2, b.Build().Count("python", "sql"))
}

func TestTopPairsOrdering(t *testing.T) {
	b := NewBuilder(PolicyExtend, nil)
	require.NoError(t, b.Add(types.Listing{ID: "L1", Tokens: []string{"python", "sql", "aws"}}))
	require.NoError(t, b.Add(types.Listing{ID: "L2", Tokens: []string{"python", "sql"}}))

	pairs := b.Build().TopPairs(2)
	require.Len(t, pairs, 2)
	assert.Equal(t, PairCount{A: "python", B: "sql", Count: 2}, pairs[0])
	assert.Equal(t, PairCount{A: "aws", B: "python", Count: 1}, pairs[1], "ties break lexically")
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "strict", PolicyStrict.String())
	assert.Equal(t, "extend", PolicyExtend.String())
}
