// Package main provides the skillmap CLI: scraping job listings, clustering
// skill tokens and serving stored runs over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillmap",
	Short: "Skill co-occurrence clustering for job listings",
	Long:  "skillmap extracts skill tokens from job listings, builds their co-occurrence matrix and clusters them hierarchically to reveal skill groupings in a job market.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
