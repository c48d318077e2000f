package jobfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-placement-backend/pkg/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdzunaFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/in/search/1", r.URL.Path)
		assert.Equal(t, "id-1", r.URL.Query().Get("app_id"))
		assert.Equal(t, "key-1", r.URL.Query().Get("app_key"))
		assert.Equal(t, "golang", r.URL.Query().Get("what"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":"a1","title":" Go Developer ","description":"APIs","redirect_url":"https://adzuna.example/a1",
			 "created":"2026-09-30T08:00:00Z","salary_min":600000,"salary_max":900000,"contract_time":"full_time",
			 "company":{"display_name":"Acme"},"location":{"display_name":"Pune"}},
			{"id":"a2","title":"Data Intern","company":{"display_name":"Beta"},"location":{"display_name":"Delhi"}},
			{"id":"","title":"broken"}
		]}`))
	}))
	defer srv.Close()

	src := NewAdzunaSource(httpclient.NewHttpClient(5*time.Second), AdzunaConfig{
		AppID: "id-1", AppKey: "key-1", Query: "golang", BaseURL: srv.URL,
	})
	postings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "a1", first.ExternalID)
	assert.Equal(t, "adzuna", first.Source)
	assert.Equal(t, "Go Developer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, JobTypeFullTime, first.JobType)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, 2026, first.PostedAt.Year())

	assert.Equal(t, JobTypeInternship, postings[1].JobType)
	assert.Nil(t, postings[1].PostedAt)
}

func TestAdzunaFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src := NewAdzunaSource(httpclient.NewHttpClient(5*time.Second), AdzunaConfig{BaseURL: srv.URL})
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestJSearchFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		_, _ = w.Write([]byte(`{"status":"OK","data":[
			{"job_id":"j1","job_title":"Backend Engineer","employer_name":"Gamma","job_city":"Hyderabad",
			 "job_country":"IN","job_employment_type":"FULLTIME","job_apply_link":"https://jobs.example/j1",
			 "job_posted_at_datetime_utc":"2026-10-01T00:00:00.000Z"},
			{"job_id":"j2","job_title":"Support Intern","employer_name":"Delta","job_is_remote":true,
			 "job_employment_type":"INTERN"}
		]}`))
	}))
	defer srv.Close()

	src := NewJSearchSource(httpclient.NewHttpClient(5*time.Second), JSearchConfig{
		APIKey: "secret", Query: "software engineer in India", BaseURL: srv.URL,
	})
	postings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "jsearch", postings[0].Source)
	assert.Equal(t, "Hyderabad, IN", postings[0].Location)
	assert.Equal(t, JobTypeFullTime, postings[0].JobType)
	assert.NotNil(t, postings[0].PostedAt)

	assert.Equal(t, "Remote", postings[1].Location)
	assert.Equal(t, JobTypeInternship, postings[1].JobType)
}

func TestJSearchFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","data":[]}`))
	}))
	defer srv.Close()

	src := NewJSearchSource(httpclient.NewHttpClient(5*time.Second), JSearchConfig{BaseURL: srv.URL})
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	postings := []Posting{
		{ExternalID: "1", Title: "Go Developer", Company: "Acme", Location: "Pune"},
		{ExternalID: "2", Title: "go developer ", Company: "ACME", Location: "pune"},
		{ExternalID: "3", Title: "Go Developer", Company: "Acme", Location: "Mumbai"},
	}
	unique, dropped := Dedupe(postings)
	assert.Equal(t, 1, dropped)
	require.Len(t, unique, 2)
	assert.Equal(t, "1", unique[0].ExternalID)
	assert.Equal(t, "3", unique[1].ExternalID)
}

func TestSalaryLabel(t *testing.T) {
	assert.Equal(t, "600000 - 900000", SalaryLabel(600000, 900000))
	assert.Equal(t, "500000", SalaryLabel(500000, 0))
	assert.Equal(t, "Not disclosed", SalaryLabel(0, 0))
}
