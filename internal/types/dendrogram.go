package types

import "sort"

// MergeEvent records one agglomerative merge. Cluster identifiers follow the
// usual dendrogram numbering: leaves are 0..n-1 in vocabulary order, and the
// merge at Step s creates cluster n+s.
type MergeEvent struct {
	Step     int     `json:"step"`
	LeftID   int     `json:"left_id"`
	RightID  int     `json:"right_id"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"` // member count of the merged cluster
}

// Dendrogram is the full merge tree over a vocabulary of tokens.
// Tokens are sorted; Merges has exactly len(Tokens)-1 entries (or zero when
// the vocabulary has fewer than two tokens).
type Dendrogram struct {
	Tokens []string     `json:"tokens"`
	Merges []MergeEvent `json:"merges"`
}

// Leaves returns the vocabulary size.
func (d *Dendrogram) Leaves() int {
	return len(d.Tokens)
}

// Members expands a cluster identifier into its member tokens, in sorted
// order. Valid ids are 0..2n-2; anything else returns nil.
func (d *Dendrogram) Members(id int) []string {
	n := len(d.Tokens)
	if id < 0 || id >= n+len(d.Merges) {
		return nil
	}
	if id < n {
		return []string{d.Tokens[id]}
	}
	merge := d.Merges[id-n]
	members := append(d.Members(merge.LeftID), d.Members(merge.RightID)...)
	sort.Strings(members)
	return members
}

// Assignment maps one token to its flat cluster label after a cut.
// Labels are dense integers starting at 0, ordered by each cluster's
// lexically smallest member token.
type Assignment struct {
	Token   string `json:"token"`
	Cluster int    `json:"cluster"`
}

// Assignments is a flat clustering produced by cutting a dendrogram.
type Assignments struct {
	Clusters int          `json:"clusters"`
	Members  []Assignment `json:"members"` // sorted by token
}

// ByCluster groups the member tokens per cluster label.
func (a *Assignments) ByCluster() map[int][]string {
	groups := make(map[int][]string, a.Clusters)
	for _, m := range a.Members {
		groups[m.Cluster] = append(groups[m.Cluster], m.Token)
	}
	return groups
}
