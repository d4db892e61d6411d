// Package cooccur builds the token vocabulary and the symmetric
// co-occurrence matrix over job listings.
package cooccur

import (
	"fmt"
	"sort"

	"github.com/jonathan/skillmap/internal/types"
)

// Policy fixes how a builder treats tokens outside the declared vocabulary.
// The policy is set once per run and never mixed.
type Policy int

const (
	// PolicyExtend auto-registers unseen tokens into the vocabulary.
	PolicyExtend Policy = iota
	// PolicyStrict rejects any listing referencing an undeclared token.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyExtend:
		return "extend"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// pair is an unordered token pair, stored with A < B.
type pair struct {
	a, b string
}

func makePair(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// Matrix is the read-only co-occurrence matrix produced by a Builder.
// Counts cover unordered pairs of distinct tokens; the diagonal is unused.
type Matrix struct {
	tokens   []string
	freq     map[string]int
	counts   map[pair]int
	listings int
}

// Builder accumulates listings into a co-occurrence matrix.
type Builder struct {
	policy   Policy
	vocab    map[string]struct{}
	freq     map[string]int
	counts   map[pair]int
	listings int
}

// NewBuilder creates a builder with the given out-of-vocabulary policy.
// The declared vocabulary may be empty under PolicyExtend.
func NewBuilder(policy Policy, declared []string) *Builder {
	vocab := make(map[string]struct{}, len(declared))
	for _, tok := range declared {
		vocab[tok] = struct{}{}
	}
	return &Builder{
		policy: policy,
		vocab:  vocab,
		freq:   make(map[string]int),
		counts: make(map[pair]int),
	}
}

// Add ingests one listing's token set. Duplicate tokens within a listing
// count once. Under PolicyStrict a listing referencing an undeclared token
// is rejected whole and contributes nothing.
func (b *Builder) Add(listing types.Listing) error {
	distinct := make([]string, 0, len(listing.Tokens))
	seen := make(map[string]struct{}, len(listing.Tokens))
	for _, tok := range listing.Tokens {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		distinct = append(distinct, tok)
	}

	for _, tok := range distinct {
		if _, ok := b.vocab[tok]; !ok {
			if b.policy == PolicyStrict {
				return fmt.Errorf("listing %s: token %q not in declared vocabulary", listing.ID, tok)
			}
			b.vocab[tok] = struct{}{}
		}
	}

	b.listings++
	for _, tok := range distinct {
		b.freq[tok]++
	}
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			b.counts[makePair(distinct[i], distinct[j])]++
		}
	}
	return nil
}

// Build finalizes the matrix. The builder may keep accumulating afterwards;
// the returned matrix is an independent snapshot.
func (b *Builder) Build() *Matrix {
	tokens := make([]string, 0, len(b.vocab))
	for tok := range b.vocab {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	freq := make(map[string]int, len(b.freq))
	for tok, n := range b.freq {
		freq[tok] = n
	}
	counts := make(map[pair]int, len(b.counts))
	for p, n := range b.counts {
		counts[p] = n
	}
	return &Matrix{tokens: tokens, freq: freq, counts: counts, listings: b.listings}
}

// Tokens returns the vocabulary in sorted order.
func (m *Matrix) Tokens() []string {
	out := make([]string, len(m.tokens))
	copy(out, m.tokens)
	return out
}

// Count returns the number of listings mentioning both tokens. Pairs never
// co-occurring (and the diagonal) report zero.
func (m *Matrix) Count(a, b string) int {
	if a == b {
		return 0
	}
	return m.counts[makePair(a, b)]
}

// Freq returns the number of listings mentioning the token at all.
func (m *Matrix) Freq(token string) int {
	return m.freq[token]
}

// Listings returns the number of listings ingested.
func (m *Matrix) Listings() int {
	return m.listings
}

// TopPairs returns up to limit pairs ordered by descending count, breaking
// ties lexically. Useful for reporting only.
func (m *Matrix) TopPairs(limit int) []PairCount {
	pairs := make([]PairCount, 0, len(m.counts))
	for p, n := range m.counts {
		pairs = append(pairs, PairCount{A: p.a, B: p.b, Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// PairCount is one co-occurrence entry for reporting.
type PairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}
