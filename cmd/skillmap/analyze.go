package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/skillmap/internal/cluster"
	"github.com/jonathan/skillmap/internal/config"
	"github.com/jonathan/skillmap/internal/db"
	"github.com/jonathan/skillmap/internal/ingestion"
	"github.com/jonathan/skillmap/internal/llm"
	"github.com/jonathan/skillmap/internal/pipeline"
	"github.com/jonathan/skillmap/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Cluster skill tokens from job listings",
	Long: `Builds the co-occurrence matrix over the listings' skill tokens, derives
pairwise distances, runs agglomerative clustering and reports the merge tree.

Use --clusters or --threshold to also cut the tree into flat clusters.
Configuration can be loaded from a JSON file using --config; command-line
arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeListings    string
	analyzeListingsCSV string
	analyzeVocabulary  string
	analyzeLinkage     string
	analyzeClusters    int
	analyzeThreshold   float64
	analyzeStrict      bool
	analyzeSuggest     bool
	analyzeAPIKey      string
	analyzeOutDir      string
	analyzeDatabaseURL string
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVarP(&analyzeListings, "listings", "l", "", "Path to listings JSON file (mutually exclusive with --listings-csv)")
	analyzeCmd.Flags().StringVar(&analyzeListingsCSV, "listings-csv", "", "Path to listings CSV file (mutually exclusive with --listings)")
	analyzeCmd.Flags().StringVar(&analyzeVocabulary, "vocab", "", "Path to declared vocabulary file, one token per line")
	analyzeCmd.Flags().StringVar(&analyzeLinkage, "linkage", "", "Linkage: single, complete or average (default average)")
	analyzeCmd.Flags().IntVarP(&analyzeClusters, "clusters", "k", 0, "Cut the tree into this many clusters")
	analyzeCmd.Flags().Float64VarP(&analyzeThreshold, "threshold", "t", 0, "Cut the tree at this merge distance")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Reject listings referencing tokens outside the declared vocabulary")
	analyzeCmd.Flags().BoolVar(&analyzeSuggest, "suggest", false, "Widen token extraction with LLM skill suggestions")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", "", "Directory to write merges.csv and clusters.csv")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if analyzeConfigPath != "" {
		loaded, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
		if analyzeVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// CLI overrides take priority over config file values.
	if cmd.Flags().Changed("listings") {
		cfg.Listings = analyzeListings
	}
	if cmd.Flags().Changed("listings-csv") {
		cfg.ListingsCSV = analyzeListingsCSV
	}
	if cmd.Flags().Changed("vocab") {
		cfg.Vocabulary = analyzeVocabulary
	}
	if cmd.Flags().Changed("linkage") {
		cfg.Linkage = analyzeLinkage
	}
	if cmd.Flags().Changed("clusters") {
		cfg.CutCount = analyzeClusters
	}
	if cmd.Flags().Changed("threshold") {
		cfg.CutThreshold = analyzeThreshold
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = analyzeStrict
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = analyzeOutDir
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	listings, err := loadListings(cfg)
	if err != nil {
		return err
	}

	linkage, err := cluster.ParseLinkage(cfg.Linkage)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Listings:     listings,
		Strict:       cfg.Strict,
		Linkage:      linkage,
		CutCount:     cfg.CutCount,
		CutThreshold: cfg.CutThreshold,
		Verbose:      cfg.Verbose,
		Out:          os.Stdout,
		OutDir:       cfg.OutDir,
	}

	if cfg.Vocabulary != "" {
		vocab, err := loadVocabulary(cfg.Vocabulary)
		if err != nil {
			return err
		}
		opts.Vocabulary = vocab
	}

	if analyzeSuggest {
		if cfg.APIKey == "" {
			return fmt.Errorf("--suggest requires an API key (flag --api-key or GEMINI_API_KEY)")
		}
		client, err := llm.NewClient(ctx, cfg.APIKey, "")
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		opts.Suggest = client
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.DB = database
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	fmt.Fprintf(os.Stdout, "Clustered %d tokens from %d listings (%d merges)\n",
		result.Dendrogram.Leaves(), result.Matrix.Listings(), len(result.Dendrogram.Merges))
	if result.Assignments != nil {
		fmt.Fprintf(os.Stdout, "Flat clusters: %d\n", result.Assignments.Clusters)
	}
	if result.RunID != uuid.Nil {
		fmt.Fprintf(os.Stdout, "Stored as run %s\n", result.RunID)
	}
	return nil
}

func loadListings(cfg config.Config) ([]types.Listing, error) {
	switch {
	case cfg.Listings != "":
		return ingestion.LoadListings(cfg.Listings)
	case cfg.ListingsCSV != "":
		return ingestion.LoadListingsCSV(cfg.ListingsCSV)
	default:
		return nil, fmt.Errorf("either --listings or --listings-csv is required")
	}
}

// loadVocabulary reads one token per line, skipping blanks and # comments.
func loadVocabulary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return tokens, nil
}
