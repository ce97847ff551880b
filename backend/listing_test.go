package backend_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employer-registration/backend"
)

const feed = `{
  "details": [
    {
      "companyName": "Acme",
      "address": "Amsterdam",
      "companyLogo": "https://cdn.test/acme.png",
      "createdJobs": [
        {"jobID": null},
        {"jobID": {"_id": "j2", "jobTitle": "Go Engineer"}},
        {"jobID": {"_id": "j3", "jobTitle": "SRE"}}
      ]
    },
    {
      "companyName": "<i>Globex</i>",
      "address": "Utrecht",
      "companyLogo": "https://cdn.test/globex.png",
      "createdJobs": []
    }
  ]
}`

func TestListingClient_Companies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/job/company", r.URL.Path)
		_, _ = io.WriteString(w, feed)
	}))
	defer srv.Close()

	companies, err := backend.NewListingClient(srv.URL, nil).Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Nil(t, companies[0].CreatedJobs[0].JobID)
	assert.Equal(t, "Go Engineer", companies[0].CreatedJobs[1].JobID.JobTitle)
}

func TestListingClient_BareArrayAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"companyName":"Initech","createdJobs":[]}]`)
	}))
	defer srv.Close()

	companies, err := backend.NewListingClient(srv.URL, nil).Companies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Initech", companies[0].CompanyName)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	_, err = backend.NewListingClient(failing.URL, nil).Companies(context.Background())
	assert.Error(t, err)
}

func TestSummarize_SkipsDeletedJobs(t *testing.T) {
	companies := []backend.Company{
		{
			CompanyName: "Acme",
			Address:     "Amsterdam",
			CompanyLogo: "https://cdn.test/acme.png",
			CreatedJobs: []backend.CreatedJob{
				{JobID: nil},
				{JobID: &backend.JobRef{ID: "j2", JobTitle: "Go Engineer"}},
				{JobID: &backend.JobRef{ID: "j3", JobTitle: "SRE"}},
			},
		},
		{CompanyName: "<i>Globex</i>", Address: "Utrecht"},
	}

	got := backend.Summarize(companies, backend.DefaultListedJobs)
	want := []backend.CompanySummary{
		{
			Name:    "Acme",
			Address: "Amsterdam",
			LogoURL: "https://cdn.test/acme.png",
			Jobs:    []backend.JobLink{{Title: "Go Engineer", Path: "/job/j2"}},
		},
		{Name: "Globex", Address: "Utrecht"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
