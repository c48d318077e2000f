package jobfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"campus-placement-backend/pkg/httpclient"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// AdzunaConfig holds Adzuna API credentials
type AdzunaConfig struct {
	AppID   string
	AppKey  string
	Country string // two-letter market code, e.g. "in"
	Query   string
	BaseURL string // overridable for tests
}

// AdzunaSource implements Source for the Adzuna search API
type AdzunaSource struct {
	client *httpclient.HttpClient
	cfg    AdzunaConfig
}

// NewAdzunaSource creates a new Adzuna source
func NewAdzunaSource(client *httpclient.HttpClient, cfg AdzunaConfig) *AdzunaSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = adzunaBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "in"
	}
	return &AdzunaSource{client: client, cfg: cfg}
}

func (a *AdzunaSource) Name() string {
	return "adzuna"
}

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	ContractTime string  `json:"contract_time"`
	Company      struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func (a *AdzunaSource) Fetch(ctx context.Context) ([]Posting, error) {
	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", "50")
	params.Set("content-type", "application/json")
	if a.cfg.Query != "" {
		params.Set("what", a.cfg.Query)
	}
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", strings.TrimRight(a.cfg.BaseURL, "/"), a.cfg.Country, params.Encode())

	body, err := a.client.GetJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from Adzuna: %w", err)
	}

	var resp adzunaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse Adzuna response: %w", err)
	}

	postings := make([]Posting, 0, len(resp.Results))
	for _, j := range resp.Results {
		if j.ID == "" || j.Title == "" {
			continue
		}
		postings = append(postings, Posting{
			ExternalID:  j.ID,
			Source:      a.Name(),
			Title:       strings.TrimSpace(j.Title),
			Company:     j.Company.DisplayName,
			Location:    j.Location.DisplayName,
			Description: j.Description,
			SalaryMin:   j.SalaryMin,
			SalaryMax:   j.SalaryMax,
			JobType:     adzunaJobType(j.ContractTime, j.Title),
			ApplyURL:    j.RedirectURL,
			PostedAt:    parseTime(j.Created),
		})
	}
	return postings, nil
}

func adzunaJobType(contractTime, title string) string {
	if strings.Contains(strings.ToLower(title), "intern") {
		return JobTypeInternship
	}
	if contractTime == "part_time" {
		return JobTypePartTime
	}
	return JobTypeFullTime
}
