package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employer-registration/backend"
	"employer-registration/shared"
)

func testRecord() shared.RegistrationRecord {
	return shared.RegistrationRecord{
		CompanyName:        "Acme Online Store",
		Address:            "Amsterdam",
		CompanyLogo:        "https://res.cloudinary.test/logo.png",
		Email:              "hr@acme-store.com",
		CompanyDescription: "We sell anvils.",
		Password:           "secret1",
	}
}

func TestSubmit_SendsRecordOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/employee/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]string{
			"companyName":        "Acme Online Store",
			"address":            "Amsterdam",
			"companyLogo":        "https://res.cloudinary.test/logo.png",
			"email":              "hr@acme-store.com",
			"companyDescription": "We sell anvils.",
			"password":           "secret1",
		}, got)

		_, _ = io.WriteString(w, `{"status":"success","message":"OK"}`)
	}))
	defer srv.Close()

	outcome, err := backend.NewSubmitter(srv.URL+"/", nil).Submit(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, shared.Succeeded("OK"), outcome)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmit_InterpretsResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    shared.SubmissionOutcome
		wantErr bool
	}{
		{"server rejection", http.StatusOK, `{"status":"error","message":"Email already used"}`, shared.Failed("Email already used"), false},
		{"rejection with 4xx", http.StatusConflict, `{"status":"fail","message":"Email already used"}`, shared.Failed("Email already used"), false},
		{"success without message", http.StatusCreated, `{"status":"success"}`, shared.Succeeded(shared.MessageRegistrationDone), false},
		{"markup in message", http.StatusOK, `{"status":"error","message":"<b>Email</b> already used"}`, shared.Failed("Email already used"), false},
		{"rejection without message", http.StatusOK, `{"status":"error"}`, shared.Failed(shared.MessageUnexpectedError), false},
		{"status is case sensitive", http.StatusOK, `{"status":"SUCCESS","message":"OK"}`, shared.Failed("OK"), false},
		{"missing status", http.StatusOK, `{"message":"OK"}`, shared.Failed(shared.MessageUnexpectedError), true},
		{"non-string status", http.StatusOK, `{"status":1,"message":"OK"}`, shared.Failed(shared.MessageUnexpectedError), true},
		{"success with 5xx", http.StatusInternalServerError, `{"status":"success","message":"OK"}`, shared.Failed(shared.MessageUnexpectedError), true},
		{"success with 4xx", http.StatusBadRequest, `{"status":"success","message":"OK"}`, shared.Failed(shared.MessageUnexpectedError), true},
		{"html error page", http.StatusBadGateway, `<html>Bad gateway</html>`, shared.Failed(shared.MessageUnexpectedError), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			outcome, err := backend.NewSubmitter(srv.URL, nil).Submit(context.Background(), testRecord())
			assert.Equal(t, tt.want, outcome)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	outcome, err := backend.NewSubmitter(url, nil).Submit(context.Background(), testRecord())
	assert.Error(t, err)
	assert.Equal(t, shared.Failed(shared.MessageUnexpectedError), outcome)
	assert.NotContains(t, err.Error(), "secret1")
}
