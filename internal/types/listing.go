// Package types defines the plain data structures shared across the pipeline.
package types

// Listing is one job posting. Either Text (raw description, tokens are
// extracted downstream) or Tokens (pre-extracted skill labels) must be set.
// Listings are immutable once ingested.
type Listing struct {
	ID     string   `json:"id"`
	Text   string   `json:"text,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
}

// ScrapedJob holds the raw fields scraped from a job board listing page.
// Missing fields are left empty rather than failing the whole listing.
type ScrapedJob struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Company        string  `json:"company"`
	Location       string  `json:"location"`
	SalaryEstimate string  `json:"salary_estimate,omitempty"`
	Description    string  `json:"description"`
	Rating         float64 `json:"rating,omitempty"`

	// Company tab details
	Size      string `json:"size,omitempty"`
	Founded   string `json:"founded,omitempty"`
	Ownership string `json:"ownership,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Revenue   string `json:"revenue,omitempty"`

	// Subratings
	CultureValues       float64 `json:"rating_culture_values,omitempty"`
	WorkLifeBalance     float64 `json:"rating_work_life_balance,omitempty"`
	SeniorManagement    float64 `json:"rating_senior_mgmt,omitempty"`
	CompBenefits        float64 `json:"rating_comp_benefits,omitempty"`
	CareerOpportunities float64 `json:"rating_career_ops,omitempty"`

	SourceURL string `json:"source_url,omitempty"`
}

// Listing converts a scraped job into a Listing carrying its description text.
func (j *ScrapedJob) Listing() Listing {
	return Listing{ID: j.ID, Text: j.Description}
}

// Location is the resolved geography for a scraped location string.
type Location struct {
	Raw        string `json:"raw"`
	Settlement string `json:"settlement,omitempty"` // city/town/village/hamlet
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
	UKWide     bool   `json:"uk_wide,omitempty"` // location was just "United Kingdom"
	Remote     bool   `json:"remote,omitempty"`
}
