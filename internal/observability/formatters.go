// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillmap/internal/cooccur"
	"github.com/jonathan/skillmap/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintVocabulary outputs the vocabulary with per-token listing frequencies.
func (p *Printer) PrintVocabulary(m *cooccur.Matrix) {
	if m == nil {
		return
	}

	tokens := m.Tokens()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Listings:   %d\n", m.Listings()))
	sb.WriteString(fmt.Sprintf("Vocabulary: %d tokens\n", len(tokens)))

	if len(tokens) > 0 {
		sb.WriteString("\n")
		count := min(len(tokens), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", tokens[i], m.Freq(tokens[i])))
		}
		if len(tokens) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(tokens)-maxItemsToShow))
		}
	}

	p.printBox("VOCABULARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopPairs outputs the most frequent co-occurring token pairs.
func (p *Printer) PrintTopPairs(m *cooccur.Matrix) {
	if m == nil {
		return
	}

	pairs := m.TopPairs(maxItemsToShow)
	if len(pairs) == 0 {
		return
	}

	var sb strings.Builder
	for i, pc := range pairs {
		sb.WriteString(fmt.Sprintf("#%d  %s + %s\n", i+1, pc.A, pc.B))
		sb.WriteString(fmt.Sprintf("    %d listings", pc.Count))
		if i < len(pairs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOP CO-OCCURRING PAIRS", sb.String())
}

// PrintMergeTree outputs the merge sequence with distances.
func (p *Printer) PrintMergeTree(d *types.Dendrogram) {
	if d == nil || len(d.Merges) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d leaves, %d merges:\n\n", d.Leaves(), len(d.Merges)))

	count := min(len(d.Merges), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := d.Merges[i]
		members := strings.Join(d.Members(d.Leaves()+m.Step), ", ")
		if len(members) > 40 {
			members = members[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  d=%.3f  {%s}\n", m.Step, m.Distance, members))
	}
	if len(d.Merges) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more merges", len(d.Merges)-maxItemsToShow))
	}

	p.printBox("MERGE TREE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClusters outputs the flat clustering produced by a cut.
func (p *Printer) PrintClusters(a *types.Assignments) {
	if a == nil || len(a.Members) == 0 {
		return
	}

	groups := a.ByCluster()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d clusters over %d tokens:\n\n", a.Clusters, len(a.Members)))

	count := min(a.Clusters, maxItemsToShow)
	for label := 0; label < count; label++ {
		members := strings.Join(groups[label], ", ")
		if len(members) > 44 {
			members = members[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("%d: %s\n", label, members))
	}
	if a.Clusters > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more clusters", a.Clusters-maxItemsToShow))
	}

	p.printBox("CLUSTERS", strings.TrimSuffix(sb.String(), "\n"))
}
