// Package locations resolves scraped job locations to UK settlements,
// regions and countries using the OS Names API with fuzzy matching.
package locations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jonathan/skillmap/internal/types"
)

// DefaultBaseURL is the OS Names API find endpoint.
const DefaultBaseURL = "https://api.os.uk/search/names/v1/find"

// settlementTypes are the gazetteer local types accepted as settlements.
var settlementTypes = map[string]struct{}{
	"Town":             {},
	"City":             {},
	"Village":          {},
	"Hamlet":           {},
	"Suburban Area":    {},
	"Other Settlement": {},
}

// Resolver queries the OS Names API for scraped location strings.
type Resolver struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewResolver creates a resolver with the default endpoint and a timeout.
func NewResolver(apiKey string) *Resolver {
	return &Resolver{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Resolve parses a scraped location string. Well-known values (London
// variants, bare countries, "United Kingdom", "Remote", Northern Ireland)
// short-circuit without touching the API; everything else is queried and
// accepted on a fuzzy name match.
func (r *Resolver) Resolve(ctx context.Context, raw string) (types.Location, error) {
	loc := types.Location{Raw: raw}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return loc, fmt.Errorf("locations: empty location string")
	}

	parts := strings.Split(raw, ", ")
	query := strings.TrimSpace(parts[0])

	// The OS Names API does not cover Northern Ireland.
	for _, part := range parts {
		if part == "Northern Ireland" {
			loc.Region = "Northern Ireland"
			loc.Country = "Northern Ireland"
			if query != "Northern Ireland" {
				loc.Settlement = query
			}
			return loc, nil
		}
	}

	switch query {
	case "London", "City of London", "Greater London":
		loc.Settlement = "London"
		loc.Region = "London"
		loc.Country = "England"
		return loc, nil
	case "England", "Scotland", "Wales":
		loc.Country = query
		return loc, nil
	case "United Kingdom":
		loc.UKWide = true
		return loc, nil
	case "Remote":
		loc.Remote = true
		return loc, nil
	}

	entry, err := r.find(ctx, query)
	if err != nil {
		return loc, err
	}
	if entry == nil {
		return loc, nil
	}

	// A trailing ", London" in the scraped string outranks the gazetteer
	// region for boroughs and suburbs.
	if containsAfterFirst(parts, "London") {
		loc.Settlement = query
		loc.Region = "London"
		loc.Country = "England"
		return loc, nil
	}

	if _, ok := settlementTypes[entry.LocalType]; ok {
		loc.Settlement = entry.matchedName
	}
	loc.Region = fixRegion(entry.Region)
	loc.Country = entry.Country
	return loc, nil
}

// gazetteerEntry is the subset of an OS Names result the resolver uses.
type gazetteerEntry struct {
	Name1     string `json:"NAME1"`
	Name2     string `json:"NAME2"`
	LocalType string `json:"LOCAL_TYPE"`
	Region    string `json:"REGION"`
	Country   string `json:"COUNTRY"`

	matchedName string
}

type findResponse struct {
	Results []struct {
		Entry gazetteerEntry `json:"GAZETTEER_ENTRY"`
	} `json:"results"`
}

// find queries the API and returns the first fuzzily matching entry, or nil
// when nothing matches.
func (r *Resolver) find(ctx context.Context, query string) (*gazetteerEntry, error) {
	if r.APIKey == "" {
		return nil, fmt.Errorf("locations: API key is required")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fq", "LOCAL_TYPE:Town LOCAL_TYPE:City LOCAL_TYPE:Village LOCAL_TYPE:Hamlet LOCAL_TYPE:Suburban_Area LOCAL_TYPE:Other_Settlement")
	params.Set("key", r.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("locations: failed to create request: %w", err)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("locations: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locations: HTTP status %d for query %q", resp.StatusCode, query)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("locations: failed to read response: %w", err)
	}
	var parsed findResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("locations: failed to parse response: %w", err)
	}

	for _, result := range parsed.Results {
		entry := result.Entry
		for _, name := range []string{entry.Name1, entry.Name2} {
			if name == "" {
				continue
			}
			if Matches(query, name) {
				entry.matchedName = name
				return &entry, nil
			}
		}
	}
	return nil, nil
}

// Matches reports whether a gazetteer name is close enough to the query:
// exact containment either way, or a normalized similarity ratio above 0.8.
func Matches(query, candidate string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return false
	}
	if strings.Contains(c, q) || strings.Contains(q, c) {
		return true
	}
	return Ratio(q, c) > 0.8
}

// Ratio is a normalized similarity in [0,1] from the Levenshtein distance.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// fixRegion remaps gazetteer region names to their common forms.
func fixRegion(region string) string {
	if region == "Eastern" {
		return "East of England"
	}
	return region
}

func containsAfterFirst(parts []string, want string) bool {
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == want {
			return true
		}
	}
	return false
}
