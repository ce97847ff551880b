package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const companiesPath = "/api/job/company"

// DefaultListedJobs is how many job entries a company card considers.
const DefaultListedJobs = 2

// JobRef is the populated job reference of a createdJobs entry.
type JobRef struct {
	ID       string `json:"_id"`
	JobTitle string `json:"jobTitle"`
}

// CreatedJob is one createdJobs entry. JobID is nil when the job was deleted.
type CreatedJob struct {
	JobID *JobRef `json:"jobID"`
}

// Company is one entry of the listing feed.
type Company struct {
	CompanyName string       `json:"companyName"`
	Address     string       `json:"address"`
	CompanyLogo string       `json:"companyLogo"`
	CreatedJobs []CreatedJob `json:"createdJobs"`
}

// JobLink is a job shown on a company card.
type JobLink struct {
	Title string
	Path  string
}

// CompanySummary is the display form of a Company.
type CompanySummary struct {
	Name    string
	Address string
	LogoURL string
	Jobs    []JobLink
}

// ListingClient reads the company listing feed.
type ListingClient struct {
	baseURL string
	http    *http.Client
}

// NewListingClient builds a ListingClient for the API at baseURL.
func NewListingClient(baseURL string, hc *http.Client) *ListingClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &ListingClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Companies fetches every company with its created jobs.
func (c *ListingClient) Companies(ctx context.Context) ([]Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+companiesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building listing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching companies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching companies: unexpected status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8*maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading companies: %w", err)
	}
	return decodeCompanies(raw)
}

func decodeCompanies(raw []byte) ([]Company, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var list []Company
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decoding companies: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Details []Company `json:"details"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decoding companies: %w", err)
	}
	return envelope.Details, nil
}

// Summarize prepares companies for display. Only the first maxJobs createdJobs
// entries are considered and entries without a job are skipped, so a card may
// list fewer than maxJobs jobs.
func Summarize(companies []Company, maxJobs int) []CompanySummary {
	out := make([]CompanySummary, 0, len(companies))
	for _, company := range companies {
		summary := CompanySummary{
			Name:    sanitizeText(company.CompanyName),
			Address: sanitizeText(company.Address),
			LogoURL: strings.TrimSpace(company.CompanyLogo),
		}
		for i, entry := range company.CreatedJobs {
			if i >= maxJobs {
				break
			}
			if entry.JobID == nil {
				continue
			}
			summary.Jobs = append(summary.Jobs, JobLink{
				Title: sanitizeText(entry.JobID.JobTitle),
				Path:  "/job/" + entry.JobID.ID,
			})
		}
		out = append(out, summary)
	}
	return out
}
