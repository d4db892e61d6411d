// Package scrape collects job listings from Glassdoor-style job boards.
// Fields missing from a listing page are left empty rather than failing the
// listing, so one badly rendered posting never aborts a scrape run.
package scrape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/jonathan/skillmap/internal/fetch"
	"github.com/jonathan/skillmap/internal/types"
)

// MaxJobs caps a single scrape run; the boards rarely serve more anyway.
const MaxJobs = 900

// Options configures a scrape run.
type Options struct {
	SearchURL  string        // seed search results URL
	NumJobs    int           // target number of listings, 1..MaxJobs
	UseBrowser bool          // render pages in headless Chrome
	Delay      time.Duration // politeness delay between page fetches
	Fetch      *fetch.Options
	Verbose    bool
	Logf       func(format string, args ...any)
}

func (o *Options) validate() error {
	if o.SearchURL == "" {
		return fmt.Errorf("scrape: search URL is required")
	}
	if o.NumJobs < 1 || o.NumJobs > MaxJobs {
		return fmt.Errorf("scrape: num jobs must be between 1 and %d, got %d", MaxJobs, o.NumJobs)
	}
	return nil
}

func (o *Options) logf(format string, args ...any) {
	if o.Verbose && o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Run scrapes listings until the target count is reached, the board runs out
// of result pages, or ctx is cancelled. Partial results are returned with
// the error that stopped the run.
func Run(ctx context.Context, opts Options) ([]types.ScrapedJob, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var jobs []types.ScrapedJob
	pageURL := opts.SearchURL
	for page := 1; pageURL != "" && len(jobs) < opts.NumJobs; page++ {
		opts.logf("scraping results page %d: %s", page, pageURL)

		html, err := fetchHTML(ctx, pageURL, &opts)
		if err != nil {
			return jobs, fmt.Errorf("results page %d: %w", page, err)
		}

		links, next, err := parseSearchPage(html, pageURL)
		if err != nil {
			return jobs, fmt.Errorf("results page %d: %w", page, err)
		}
		if len(links) == 0 {
			opts.logf("no job links on page %d, stopping", page)
			break
		}

		for _, link := range links {
			if len(jobs) >= opts.NumJobs {
				break
			}
			if err := ctx.Err(); err != nil {
				return jobs, err
			}
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}

			opts.logf("job %d/%d: %s", len(jobs)+1, opts.NumJobs, link)
			jobHTML, err := fetchHTML(ctx, link, &opts)
			if err != nil {
				// Per-listing failures are logged and skipped, like any
				// other missing field.
				opts.logf("skipping %s: %v", link, err)
				continue
			}
			job := ParseJobPage(jobHTML)
			if !opts.UseBrowser && fetch.NeedsBrowser(job.Description) {
				opts.logf("listing %s looks JavaScript-rendered, consider --use-browser", link)
			}
			job.ID = uuid.NewString()
			job.SourceURL = link
			jobs = append(jobs, job)
		}

		pageURL = next
	}
	return jobs, nil
}

func fetchHTML(ctx context.Context, pageURL string, opts *Options) (string, error) {
	if opts.UseBrowser {
		return fetch.Render(ctx, pageURL, 0)
	}
	page, err := fetch.Get(ctx, pageURL, opts.Fetch)
	if err != nil {
		return "", err
	}
	return page.HTML, nil
}

// parseSearchPage extracts listing links and the next-page URL from a search
// results page.
func parseSearchPage(html, baseURL string) (links []string, next string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse search page: %w", err)
	}

	doc.Find(".react-job-listing a, [data-test='job-link'], a.jobLink").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, absoluteURL(baseURL, href))
	})

	if href, ok := doc.Find("[data-test='pagination-next'], button.nextButton a, a[rel='next']").First().Attr("href"); ok && href != "" {
		next = absoluteURL(baseURL, href)
	}

	return dedupe(links), next, nil
}

// ParseJobPage extracts the listing fields from a job detail page. Every
// field is optional; the description falls back through the generic listing
// selectors.
func ParseJobPage(html string) types.ScrapedJob {
	var job types.ScrapedJob

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return job
	}

	job.Title = firstText(doc, "[data-test='job-title'], .job-title, h1")
	job.Company = firstText(doc, "[data-test='employer-name'], .employer-name, .company")
	job.Location = firstText(doc, "[data-test='location'], .location")
	job.SalaryEstimate = firstText(doc, "[data-test='detailSalary'], .salary-estimate, .salary")
	job.Rating = parseRating(firstText(doc, "[data-test='detailRating'], .rating"))

	if desc, err := fetch.ExtractText(html, fetch.ListingSelectors()); err == nil {
		job.Description = desc
	}

	details := companyDetails(doc)
	job.Size = details["Size"]
	job.Founded = details["Founded"]
	job.Ownership = details["Type"]
	job.Industry = details["Industry"]
	job.Sector = details["Sector"]
	job.Revenue = details["Revenue"]

	subs := subratings(doc)
	job.CultureValues = subs["Culture & Values"]
	job.WorkLifeBalance = subs["Work/Life Balance"]
	job.SeniorManagement = subs["Senior Management"]
	job.CompBenefits = subs["Comp & Benefits"]
	job.CareerOpportunities = subs["Career Opportunities"]

	return job
}

// companyDetails reads the label/value blocks on the company tab.
func companyDetails(doc *goquery.Document) map[string]string {
	details := make(map[string]string)
	doc.Find("[data-test='company-detail'], .company-overview li, .companyOverview div").Each(func(_ int, s *goquery.Selection) {
		label, value, ok := splitLabelValue(s.Text())
		if ok {
			details[label] = value
		}
	})
	return details
}

// subratings reads the per-category rating rows.
func subratings(doc *goquery.Document) map[string]float64 {
	ratings := make(map[string]float64)
	doc.Find("[data-test='subrating'], .subratings li").Each(func(_ int, s *goquery.Selection) {
		label, value, ok := splitLabelValue(s.Text())
		if !ok {
			return
		}
		if rating := parseRating(value); rating > 0 {
			ratings[label] = rating
		}
	})
	return ratings
}

// splitLabelValue splits "Size\n51 to 200 Employees" style blocks.
func splitLabelValue(text string) (label, value string, ok bool) {
	text = strings.TrimSpace(text)
	label, value, found := strings.Cut(text, "\n")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(label), strings.TrimSpace(value), true
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func parseRating(text string) float64 {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "★"))
	rating, err := strconv.ParseFloat(text, 64)
	if err != nil || rating < 0 || rating > 5 {
		return 0
	}
	return rating
}

func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base = strings.TrimSuffix(base, "/")
	if idx := strings.Index(base, "://"); idx >= 0 {
		if slash := strings.Index(base[idx+3:], "/"); slash >= 0 {
			base = base[:idx+3+slash]
		}
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}
