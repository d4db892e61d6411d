package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmap/internal/export"
	"github.com/jonathan/skillmap/internal/locations"
	"github.com/jonathan/skillmap/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape job listings from a job board search URL",
	Long: `Walks the search result pages, fetches each listing and writes the scraped
jobs to a CSV file. Listings with missing fields are kept with the fields
left empty.`,
	RunE: runScrape,
}

var (
	scrapeURL        string
	scrapeNumJobs    int
	scrapeUseBrowser bool
	scrapeDelay      time.Duration
	scrapeResolve    bool
	scrapeOSAPIKey   string
	scrapeOut        string
	scrapeVerbose    bool
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "Search results URL to start from (required)")
	scrapeCmd.Flags().IntVarP(&scrapeNumJobs, "num-jobs", "n", 30, fmt.Sprintf("Number of listings to scrape (1-%d)", scrape.MaxJobs))
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "use-browser", false, "Render pages with headless Chrome (requires Chrome)")
	scrapeCmd.Flags().DurationVar(&scrapeDelay, "delay", time.Second, "Politeness delay between page fetches")
	scrapeCmd.Flags().BoolVar(&scrapeResolve, "resolve-locations", false, "Resolve scraped locations via the OS Names API")
	scrapeCmd.Flags().StringVar(&scrapeOSAPIKey, "os-api-key", "", "OS Names API key (optional, defaults to OS_API_KEY env var)")
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "jobs.csv", "Output CSV path")
	scrapeCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print per-page progress")

	_ = scrapeCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	jobs, err := scrape.Run(ctx, scrape.Options{
		SearchURL:  scrapeURL,
		NumJobs:    scrapeNumJobs,
		UseBrowser: scrapeUseBrowser,
		Delay:      scrapeDelay,
		Verbose:    scrapeVerbose,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	})
	if err != nil {
		// Keep whatever was scraped before the failure.
		fmt.Fprintf(os.Stderr, "warning: scrape stopped early: %v\n", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no listings scraped")
	}

	if scrapeResolve {
		apiKey := scrapeOSAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("OS_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("--resolve-locations requires an API key (flag --os-api-key or OS_API_KEY)")
		}
		resolver := locations.NewResolver(apiKey)
		for i := range jobs {
			loc, err := resolver.Resolve(ctx, jobs[i].Location)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not resolve %q: %v\n", jobs[i].Location, err)
				continue
			}
			if loc.Settlement != "" {
				jobs[i].Location = loc.Settlement
			}
		}
	}

	err = export.WriteFile(scrapeOut, func(w io.Writer) error {
		return export.WriteJobs(w, jobs)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Wrote %d listings to %s\n", len(jobs), scrapeOut)
	return nil
}
