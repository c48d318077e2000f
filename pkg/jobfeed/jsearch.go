package jobfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"campus-placement-backend/pkg/httpclient"
)

const (
	jsearchBaseURL = "https://jsearch.p.rapidapi.com"
	jsearchHost    = "jsearch.p.rapidapi.com"
)

// JSearchConfig holds RapidAPI credentials for JSearch
type JSearchConfig struct {
	APIKey  string
	Query   string
	BaseURL string // overridable for tests
}

// JSearchSource implements Source for the JSearch API on RapidAPI
type JSearchSource struct {
	client *httpclient.HttpClient
	cfg    JSearchConfig
}

// NewJSearchSource creates a new JSearch source
func NewJSearchSource(client *httpclient.HttpClient, cfg JSearchConfig) *JSearchSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = jsearchBaseURL
	}
	return &JSearchSource{client: client, cfg: cfg}
}

func (s *JSearchSource) Name() string {
	return "jsearch"
}

type jsearchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
}

type jsearchJob struct {
	JobID          string  `json:"job_id"`
	Title          string  `json:"job_title"`
	EmployerName   string  `json:"employer_name"`
	City           string  `json:"job_city"`
	State          string  `json:"job_state"`
	Country        string  `json:"job_country"`
	IsRemote       bool    `json:"job_is_remote"`
	Description    string  `json:"job_description"`
	ApplyLink      string  `json:"job_apply_link"`
	EmploymentType string  `json:"job_employment_type"`
	MinSalary      float64 `json:"job_min_salary"`
	MaxSalary      float64 `json:"job_max_salary"`
	PostedAt       string  `json:"job_posted_at_datetime_utc"`
}

func (s *JSearchSource) Fetch(ctx context.Context) ([]Posting, error) {
	params := url.Values{}
	params.Set("query", s.cfg.Query)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/search?" + params.Encode()

	body, err := s.client.GetJSON(ctx, endpoint, map[string]string{
		"X-RapidAPI-Key":  s.cfg.APIKey,
		"X-RapidAPI-Host": jsearchHost,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from JSearch: %w", err)
	}

	var resp jsearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSearch response: %w", err)
	}
	if resp.Status != "" && resp.Status != "OK" {
		return nil, fmt.Errorf("JSearch returned status %q", resp.Status)
	}

	postings := make([]Posting, 0, len(resp.Data))
	for _, j := range resp.Data {
		if j.JobID == "" || j.Title == "" {
			continue
		}
		postings = append(postings, Posting{
			ExternalID:  j.JobID,
			Source:      s.Name(),
			Title:       strings.TrimSpace(j.Title),
			Company:     j.EmployerName,
			Location:    jsearchLocation(j),
			Description: j.Description,
			SalaryMin:   j.MinSalary,
			SalaryMax:   j.MaxSalary,
			JobType:     jsearchJobType(j.EmploymentType),
			ApplyURL:    j.ApplyLink,
			PostedAt:    parseTime(j.PostedAt),
		})
	}
	return postings, nil
}

func jsearchLocation(j jsearchJob) string {
	if j.IsRemote {
		return "Remote"
	}
	var parts []string
	for _, p := range []string{j.City, j.State, j.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func jsearchJobType(employmentType string) string {
	switch strings.ToUpper(employmentType) {
	case "PARTTIME":
		return JobTypePartTime
	case "INTERN":
		return JobTypeInternship
	default:
		return JobTypeFullTime
	}
}
