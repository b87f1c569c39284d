package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerDisabledWithoutAPIKey(t *testing.T) {
	m := NewMailer("", "noreply@hr360.app", "HR360")

	assert.False(t, m.Enabled())
	err := m.Send(context.Background(), "hr@example.com", "subject", "<p>body</p>")
	assert.ErrorContains(t, err, "not configured")

	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
}

func TestMailerSend(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := NewMailer("sg-key", "noreply@hr360.app", "HR360 Screening", WithBaseURL(server.URL))
	err := m.Send(context.Background(), "hr@example.com", "Screening done", "<p>3 processed</p>")

	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", gotAuth)
	require.Len(t, gotBody.Personalizations, 1)
	assert.Equal(t, "hr@example.com", gotBody.Personalizations[0].To[0].Email)
	assert.Equal(t, "Screening done", gotBody.Personalizations[0].Subject)
	assert.Equal(t, "noreply@hr360.app", gotBody.From.Email)
	require.Len(t, gotBody.Content, 1)
	assert.Equal(t, "text/html", gotBody.Content[0].Type)
}

func TestMailerSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	m := NewMailer("bad-key", "noreply@hr360.app", "", WithBaseURL(server.URL))
	err := m.Send(context.Background(), "hr@example.com", "s", "b")

	assert.ErrorContains(t, err, "rejected")
	assert.ErrorContains(t, err, "bad key")
}

func TestSummaryHTML(t *testing.T) {
	html := SummaryHTML(BatchSummary{Processed: 3, Created: 2, Updated: 1})

	assert.Contains(t, html, "Applications processed:</strong> 3")
	assert.Contains(t, html, "New candidates:</strong> 2")
	assert.Contains(t, html, "Updated candidates:</strong> 1")
	assert.NotContains(t, html, "Failed", "failure row only renders when failures exist")

	withFailures := SummaryHTML(BatchSummary{Processed: 1, Failed: 2})
	assert.Contains(t, withFailures, "Failed:</strong> 2")
}

func TestSummarySubject(t *testing.T) {
	assert.Equal(t, "Resume Screening: 4 application(s) processed",
		SummarySubject(BatchSummary{Processed: 4}))
}
