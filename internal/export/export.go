// Package export writes analysis results and scraped listings as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/skillmap/internal/types"
)

// WriteMergeTree writes a dendrogram's merge events, one row per merge.
func WriteMergeTree(w io.Writer, d *types.Dendrogram) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "left_id", "right_id", "distance", "size"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, m := range d.Merges {
		row := []string{
			strconv.Itoa(m.Step),
			strconv.Itoa(m.LeftID),
			strconv.Itoa(m.RightID),
			formatDistance(m.Distance),
			strconv.Itoa(m.Size),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write merge %d: %w", m.Step, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAssignments writes flat cluster assignments ordered by token.
func WriteAssignments(w io.Writer, a *types.Assignments) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"token", "cluster"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, assignment := range a.Members {
		row := []string{assignment.Token, strconv.Itoa(assignment.Cluster)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write assignment for %q: %w", assignment.Token, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// jobHeader matches the column layout consumers of scraped exports expect.
var jobHeader = []string{
	"id", "title", "company", "location", "salary_estimate", "rating",
	"description", "size", "founded", "ownership", "industry", "sector",
	"revenue", "source_url",
}

// WriteJobs writes scraped listings, one row per job. Newlines inside the
// description are preserved by the CSV quoting rules.
func WriteJobs(w io.Writer, jobs []types.ScrapedJob) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(jobHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, job := range jobs {
		row := []string{
			job.ID,
			job.Title,
			job.Company,
			job.Location,
			job.SalaryEstimate,
			formatDistance(job.Rating),
			job.Description,
			job.Size,
			job.Founded,
			job.Ownership,
			job.Industry,
			job.Sector,
			job.Revenue,
			job.SourceURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write job %s: %w", job.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes via fn to path, creating parent-less files atomically
// enough for pipeline output: write to a temp file, then rename.
func WriteFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(dirOf(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename export: %w", err)
	}
	return nil
}

func dirOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return "."
}

// formatDistance trims trailing zeros so 0.5 is "0.5" and 1 is "1".
func formatDistance(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
