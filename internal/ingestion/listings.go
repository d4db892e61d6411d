// Package ingestion loads and validates job listings from disk.
package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/skillmap/internal/types"
)

// listingsSchema validates the listings JSON input: an array of objects with
// an optional id and either raw text or pre-extracted tokens.
const listingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": "string"},
      "text": {"type": "string"},
      "tokens": {
        "type": "array",
        "items": {"type": "string"}
      }
    },
    "anyOf": [
      {"required": ["text"]},
      {"required": ["tokens"]}
    ],
    "additionalProperties": false
  }
}`

// LoadListings reads a JSON file of listings, validates it against the input
// schema, and fills in missing ids. The returned slice is ready for token
// extraction or co-occurrence building.
func LoadListings(path string) ([]types.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("listings file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read listings file: %w", err)
	}
	return ParseListings(data)
}

// ParseListings validates and decodes raw listings JSON.
func ParseListings(data []byte) ([]types.Listing, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(listingsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate listings JSON: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return nil, fmt.Errorf("listings JSON is invalid: %s", strings.Join(messages, "; "))
	}

	var listings []types.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
	}

	for i := range listings {
		if listings[i].ID == "" {
			listings[i].ID = uuid.NewString()
		}
		listings[i].Text = CleanText(listings[i].Text)
	}
	return listings, nil
}

// LoadListingsCSV reads listings from a CSV file with a header row. The
// first column is the listing id (blank for auto-assignment) and the second
// is the description text, matching the scraper's export format.
func LoadListingsCSV(path string) ([]types.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings CSV: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("listings CSV needs at least id and text columns, got %d", len(header))
	}

	var listings []types.Listing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			id = uuid.NewString()
		}
		listings = append(listings, types.Listing{ID: id, Text: CleanText(record[1])})
	}
	return listings, nil
}
