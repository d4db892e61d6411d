package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/skillmap/internal/types"
)

// node is one active cluster during agglomeration.
type node struct {
	id      int
	members []string // sorted
	key     string   // members joined; used for deterministic tie-breaks
	size    int
}

func newNode(id int, members []string) *node {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return &node{
		id:      id,
		members: sorted,
		key:     strings.Join(sorted, "\x1f"),
		size:    len(sorted),
	}
}

// pairKey identifies an unordered pair of active cluster ids, low id first.
type pairKey struct {
	lo, hi int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Cluster runs agglomerative clustering over the distance matrix and returns
// the full merge tree. Exactly len(tokens)-1 merges are produced; empty and
// single-token vocabularies yield a dendrogram with no merges.
//
// Ties on minimum distance are broken toward the pair whose combined sorted
// member-token list is lexically lowest, so results are deterministic.
func Cluster(dm *DistanceMatrix, linkage Linkage) (*types.Dendrogram, error) {
	if _, err := ParseLinkage(string(linkage)); err != nil {
		return nil, err
	}
	if err := dm.Validate(); err != nil {
		return nil, fmt.Errorf("clustering precondition: %w", err)
	}

	tokens := dm.Tokens()
	n := len(tokens)
	dendrogram := &types.Dendrogram{Tokens: tokens}
	if n < 2 {
		return dendrogram, nil
	}

	active := make(map[int]*node, n)
	for i, tok := range tokens {
		active[i] = newNode(i, []string{tok})
	}
	dist := make(map[pairKey]float64, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist[pairKey{lo: i, hi: j}] = dm.At(i, j)
		}
	}

	dendrogram.Merges = make([]types.MergeEvent, 0, n-1)
	for step := 0; step < n-1; step++ {
		left, right := closestPair(active, dist)

		merged := newNode(n+step, append(append([]string{}, active[left].members...), active[right].members...))
		dendrogram.Merges = append(dendrogram.Merges, types.MergeEvent{
			Step:     step,
			LeftID:   left,
			RightID:  right,
			Distance: dist[makePairKey(left, right)],
			Size:     merged.size,
		})

		sizeL, sizeR := active[left].size, active[right].size
		for id := range active {
			if id == left || id == right {
				continue
			}
			dAC := dist[makePairKey(left, id)]
			dBC := dist[makePairKey(right, id)]
			dist[makePairKey(merged.id, id)] = linkage.merged(dAC, dBC, sizeL, sizeR)
			delete(dist, makePairKey(left, id))
			delete(dist, makePairKey(right, id))
		}
		delete(dist, makePairKey(left, right))
		delete(active, left)
		delete(active, right)
		active[merged.id] = merged
	}

	return dendrogram, nil
}

// closestPair finds the active pair with minimum distance, resolving ties by
// the lexical order of the combined member lists. Returns ids low-first.
func closestPair(active map[int]*node, dist map[pairKey]float64) (int, int) {
	ids := make([]int, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	best := pairKey{lo: -1, hi: -1}
	bestDist := 0.0
	bestKey := ""
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pk := pairKey{lo: ids[i], hi: ids[j]}
			d := dist[pk]
			if best.lo >= 0 && d > bestDist {
				continue
			}
			key := combinedKey(active[ids[i]], active[ids[j]])
			if best.lo < 0 || d < bestDist || key < bestKey {
				best = pk
				bestDist = d
				bestKey = key
			}
		}
	}
	return best.lo, best.hi
}

// combinedKey merges two sorted member lists and joins them for comparison.
func combinedKey(a, b *node) string {
	merged := make([]string, 0, len(a.members)+len(b.members))
	i, j := 0, 0
	for i < len(a.members) && j < len(b.members) {
		if a.members[i] <= b.members[j] {
			merged = append(merged, a.members[i])
			i++
		} else {
			merged = append(merged, b.members[j])
			j++
		}
	}
	merged = append(merged, a.members[i:]...)
	merged = append(merged, b.members[j:]...)
	return strings.Join(merged, "\x1f")
}
