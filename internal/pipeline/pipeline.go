// Package pipeline orchestrates a full analysis run: tokenize listings,
// build the co-occurrence matrix, derive distances, cluster and cut.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/skillmap/internal/cluster"
	"github.com/jonathan/skillmap/internal/cooccur"
	"github.com/jonathan/skillmap/internal/db"
	"github.com/jonathan/skillmap/internal/export"
	"github.com/jonathan/skillmap/internal/extraction"
	"github.com/jonathan/skillmap/internal/observability"
	"github.com/jonathan/skillmap/internal/types"
)

// SkillSuggester widens listing token sets from free text. Implemented by
// the llm client; nil disables suggestion.
type SkillSuggester interface {
	SuggestSkills(ctx context.Context, text string) ([]string, error)
}

// Options configures an analysis run.
type Options struct {
	Listings   []types.Listing
	Vocabulary []string // declared vocabulary; required under Strict
	Strict     bool     // reject listings with undeclared tokens

	Linkage      cluster.Linkage
	CutCount     int     // cut into k clusters when > 0
	CutThreshold float64 // cut at distance t when > 0 and CutCount == 0

	Suggest SkillSuggester // optional

	Verbose bool
	Out     io.Writer // verbose output target

	DB     *db.DB // optional persistence
	OutDir string // optional CSV export directory
}

// Result carries everything a run produced. Warnings hold non-fatal
// persistence and export failures.
type Result struct {
	Matrix      *cooccur.Matrix
	Distances   *cluster.DistanceMatrix
	Dendrogram  *types.Dendrogram
	Assignments *types.Assignments
	RunID       uuid.UUID
	Warnings    []string
}

// Run executes the pipeline. Numeric failures abort the run; database and
// export failures after the core stages only produce warnings.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Listings) == 0 {
		return nil, fmt.Errorf("pipeline: no listings to analyze")
	}
	if opts.CutCount > 0 && opts.CutThreshold > 0 {
		return nil, fmt.Errorf("pipeline: cut count and cut threshold are mutually exclusive")
	}
	linkage, err := cluster.ParseLinkage(string(opts.Linkage))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	opts.Linkage = linkage

	result := &Result{}

	listings, warnings := tokenize(ctx, opts)
	result.Warnings = warnings

	policy := cooccur.PolicyExtend
	if opts.Strict {
		policy = cooccur.PolicyStrict
	}
	builder := cooccur.NewBuilder(policy, opts.Vocabulary)
	for _, listing := range listings {
		if err := builder.Add(listing); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	result.Matrix = builder.Build()

	distances, err := cluster.FromCooccurrence(ctx, result.Matrix)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	result.Distances = distances

	dendrogram, err := cluster.Cluster(distances, opts.Linkage)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	result.Dendrogram = dendrogram

	switch {
	case opts.CutCount > 0:
		result.Assignments, err = cluster.CutByCount(dendrogram, opts.CutCount)
	case opts.CutThreshold > 0:
		result.Assignments, err = cluster.CutByThreshold(dendrogram, opts.CutThreshold)
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	if opts.Verbose && opts.Out != nil {
		printer := observability.NewPrinter(opts.Out)
		printer.PrintVocabulary(result.Matrix)
		printer.PrintTopPairs(result.Matrix)
		printer.PrintMergeTree(result.Dendrogram)
		printer.PrintClusters(result.Assignments)
	}

	if opts.DB != nil {
		persist(ctx, opts, listings, result)
	}
	if opts.OutDir != "" {
		exportCSV(opts.OutDir, result)
	}

	return result, nil
}

// tokenize fills missing token sets from listing text, merging in LLM
// suggestions when a suggester is configured. Suggestion failures degrade to
// pattern extraction only.
func tokenize(ctx context.Context, opts Options) ([]types.Listing, []string) {
	var warnings []string

	listings := make([]types.Listing, len(opts.Listings))
	copy(listings, opts.Listings)

	for i := range listings {
		if len(listings[i].Tokens) > 0 || listings[i].Text == "" {
			continue
		}
		tokens := extraction.ExtractTokens(listings[i].Text)
		if opts.Suggest != nil {
			suggested, err := opts.Suggest.SuggestSkills(ctx, listings[i].Text)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("listing %s: skill suggestion failed: %v", listings[i].ID, err))
			} else {
				tokens = mergeTokens(tokens, suggested)
			}
		}
		listings[i].Tokens = tokens
	}
	return listings, warnings
}

func mergeTokens(a, b []string) []string {
	return extraction.NormalizeTokens(append(a, b...))
}

// persist stores the run. Failures become warnings; the run still succeeds.
func persist(ctx context.Context, opts Options, listings []types.Listing, result *Result) {
	policy := cooccur.PolicyExtend
	if opts.Strict {
		policy = cooccur.PolicyStrict
	}

	runID, err := opts.DB.CreateRun(ctx, string(opts.Linkage), policy.String(), len(listings), result.Dendrogram.Leaves())
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist: %v", err))
		return
	}
	result.RunID = runID

	status := db.StatusCompleted
	if err := opts.DB.SaveListings(ctx, runID, listings); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist: %v", err))
		status = db.StatusFailed
	}
	if err := opts.DB.SaveMergeEvents(ctx, runID, result.Dendrogram.Merges); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist: %v", err))
		status = db.StatusFailed
	}
	if result.Assignments != nil {
		if err := opts.DB.SaveAssignments(ctx, runID, result.Assignments); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("persist: %v", err))
			status = db.StatusFailed
		}
	}
	if err := opts.DB.CompleteRun(ctx, runID, status); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist: %v", err))
	}
}

// exportCSV writes the merge tree and assignments under dir.
func exportCSV(dir string, result *Result) {
	mergePath := filepath.Join(dir, "merges.csv")
	err := export.WriteFile(mergePath, func(w io.Writer) error {
		return export.WriteMergeTree(w, result.Dendrogram)
	})
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("export: %v", err))
	}

	if result.Assignments == nil {
		return
	}
	assignPath := filepath.Join(dir, "clusters.csv")
	err = export.WriteFile(assignPath, func(w io.Writer) error {
		return export.WriteAssignments(w, result.Assignments)
	})
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("export: %v", err))
	}
}
