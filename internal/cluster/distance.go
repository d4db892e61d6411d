// Package cluster implements the distance transform, the agglomerative
// clustering engine, and dendrogram cuts over skill co-occurrence data.
package cluster

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillmap/internal/cooccur"
)

// DistanceMatrix is a symmetric token-pair dissimilarity matrix in [0,1].
type DistanceMatrix struct {
	tokens []string
	index  map[string]int
	d      [][]float64
}

// FromCooccurrence derives the distance matrix from co-occurrence counts:
//
//	d(a,b) = 1 - count(a,b) / min(freq(a), freq(b))
//
// clamped to [0,1], with d(a,b) = 1 when either token never appears.
// Rows are computed in parallel; the result is deterministic regardless.
func FromCooccurrence(ctx context.Context, m *cooccur.Matrix) (*DistanceMatrix, error) {
	tokens := m.Tokens()
	n := len(tokens)

	dm := &DistanceMatrix{
		tokens: tokens,
		index:  make(map[string]int, n),
		d:      make([][]float64, n),
	}
	for i, tok := range tokens {
		dm.index[tok] = i
		dm.d[i] = make([]float64, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				dm.d[i][j] = pairDistance(m, tokens[i], tokens[j])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing distance matrix: %w", err)
	}

	// Mirror the upper triangle; the diagonal stays zero.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dm.d[j][i] = dm.d[i][j]
		}
	}
	return dm, nil
}

func pairDistance(m *cooccur.Matrix, a, b string) float64 {
	minFreq := m.Freq(a)
	if fb := m.Freq(b); fb < minFreq {
		minFreq = fb
	}
	if minFreq == 0 {
		return 1
	}
	d := 1 - float64(m.Count(a, b))/float64(minFreq)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// Tokens returns the vocabulary in matrix order (sorted).
func (dm *DistanceMatrix) Tokens() []string {
	out := make([]string, len(dm.tokens))
	copy(out, dm.tokens)
	return out
}

// Distance returns the dissimilarity between two tokens. Both tokens must
// come from Tokens().
func (dm *DistanceMatrix) Distance(a, b string) float64 {
	return dm.d[dm.index[a]][dm.index[b]]
}

// At returns the dissimilarity between the tokens at positions i and j.
func (dm *DistanceMatrix) At(i, j int) float64 {
	return dm.d[i][j]
}

// Validate checks the metric preconditions the engine relies on: zero
// diagonal, symmetry, no negative or undefined entries. A violation is a
// caller bug surfaced before any merge begins, never silently corrected.
func (dm *DistanceMatrix) Validate() error {
	n := len(dm.tokens)
	for i := 0; i < n; i++ {
		if dm.d[i][i] != 0 {
			return fmt.Errorf("distance matrix: nonzero diagonal at %q: %g", dm.tokens[i], dm.d[i][i])
		}
		for j := i + 1; j < n; j++ {
			v := dm.d[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("distance matrix: undefined entry (%q,%q)", dm.tokens[i], dm.tokens[j])
			}
			if v < 0 {
				return fmt.Errorf("distance matrix: negative entry (%q,%q): %g", dm.tokens[i], dm.tokens[j], v)
			}
			if dm.d[j][i] != v {
				return fmt.Errorf("distance matrix: asymmetric at (%q,%q): %g vs %g", dm.tokens[i], dm.tokens[j], v, dm.d[j][i])
			}
		}
	}
	return nil
}
