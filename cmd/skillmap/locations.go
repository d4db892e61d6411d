package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmap/internal/locations"
)

var locationsCmd = &cobra.Command{
	Use:   "locations [location string]...",
	Short: "Resolve scraped location strings to UK settlements and regions",
	Long: `Resolves each location string via the OS Names API and prints the result
as JSON. Well-known values (London variants, countries, "Remote") resolve
without an API call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLocations,
}

var locationsAPIKey string

func init() {
	locationsCmd.Flags().StringVar(&locationsAPIKey, "os-api-key", "", "OS Names API key (optional, defaults to OS_API_KEY env var)")
	rootCmd.AddCommand(locationsCmd)
}

func runLocations(_ *cobra.Command, args []string) error {
	apiKey := locationsAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("OS_API_KEY")
	}

	resolver := locations.NewResolver(apiKey)
	encoder := json.NewEncoder(os.Stdout)

	for _, raw := range args {
		loc, err := resolver.Resolve(context.Background(), raw)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", raw, err)
		}
		if err := encoder.Encode(loc); err != nil {
			return err
		}
	}
	return nil
}
