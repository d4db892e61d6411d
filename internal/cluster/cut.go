package cluster

import (
	"fmt"
	"sort"

	"github.com/jonathan/skillmap/internal/types"
)

// CutByCount flattens the dendrogram into exactly k clusters.
// k must satisfy 1 <= k <= vocabulary size; an empty vocabulary yields an
// empty result for any k >= 1.
func CutByCount(d *types.Dendrogram, k int) (*types.Assignments, error) {
	n := d.Leaves()
	if k < 1 {
		return nil, fmt.Errorf("cut: cluster count %d is below 1", k)
	}
	if n == 0 {
		return &types.Assignments{}, nil
	}
	if k > n {
		return nil, fmt.Errorf("cut: cluster count %d exceeds vocabulary size %d", k, n)
	}
	return flatten(d, n-k), nil
}

// CutByThreshold flattens the dendrogram by applying every merge whose
// distance does not exceed t. t must be non-negative.
func CutByThreshold(d *types.Dendrogram, t float64) (*types.Assignments, error) {
	if t < 0 {
		return nil, fmt.Errorf("cut: distance threshold %g is negative", t)
	}
	if d.Leaves() == 0 {
		return &types.Assignments{}, nil
	}
	applied := 0
	for _, m := range d.Merges {
		if m.Distance > t {
			break
		}
		applied++
	}
	return flatten(d, applied), nil
}

// flatten replays the first `applied` merges and labels the remaining active
// clusters. Labels are dense integers ordered by each cluster's lexically
// smallest member, which keeps assignments deterministic.
func flatten(d *types.Dendrogram, applied int) *types.Assignments {
	n := d.Leaves()

	active := make(map[int][]string, n)
	for i, tok := range d.Tokens {
		active[i] = []string{tok}
	}
	for step := 0; step < applied; step++ {
		m := d.Merges[step]
		merged := append(active[m.LeftID], active[m.RightID]...)
		delete(active, m.LeftID)
		delete(active, m.RightID)
		active[n+step] = merged
	}

	groups := make([][]string, 0, len(active))
	for _, members := range active {
		sorted := make([]string, len(members))
		copy(sorted, members)
		sort.Strings(sorted)
		groups = append(groups, sorted)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})

	out := &types.Assignments{Clusters: len(groups)}
	for label, members := range groups {
		for _, tok := range members {
			out.Members = append(out.Members, types.Assignment{Token: tok, Cluster: label})
		}
	}
	sort.Slice(out.Members, func(i, j int) bool {
		return out.Members[i].Token < out.Members[j].Token
	})
	return out
}
