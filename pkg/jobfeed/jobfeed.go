package jobfeed

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// Posting is an externally aggregated job normalized across providers
type Posting struct {
	ExternalID  string
	Source      string
	Title       string
	Company     string
	Location    string
	Description string
	SalaryMin   float64
	SalaryMax   float64
	JobType     string // full-time | part-time | internship
	ApplyURL    string
	PostedAt    *time.Time
}

// Job types used by postings
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeInternship = "internship"
)

// Source represents a third-party job aggregator
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Posting, error)
}

// Dedupe removes postings with the same title, company and location,
// keeping the first occurrence. It returns the number of dropped postings.
func Dedupe(postings []Posting) ([]Posting, int) {
	seen := make(map[string]bool, len(postings))
	unique := make([]Posting, 0, len(postings))
	for _, p := range postings {
		key := postingHash(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}
	return unique, len(postings) - len(unique)
}

func postingHash(p Posting) string {
	title := strings.ToLower(strings.TrimSpace(p.Title))
	company := strings.ToLower(strings.TrimSpace(p.Company))
	location := strings.ToLower(strings.TrimSpace(p.Location))
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s", title, company, location)))
	return fmt.Sprintf("%x", sum)
}

// SalaryLabel renders a min/max pair for display.
func SalaryLabel(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("%.0f - %.0f", min, max)
	case max > 0:
		return fmt.Sprintf("%.0f", max)
	case min > 0:
		return fmt.Sprintf("%.0f", min)
	default:
		return "Not disclosed"
	}
}

// parseTime tries the timestamp layouts aggregators are known to use
func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}
