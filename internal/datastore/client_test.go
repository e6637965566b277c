package datastore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-triage-go/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.DatastoreConfig{
		URL:        baseURL,
		ServiceKey: "service-key",
		Table:      "emails",
		Timeout:    5 * time.Second,
	})
}

func TestFetchAllEmails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/emails", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "sent_date.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"message_id": "msg-1", "sender_email": "a@example.com", "subject": "Support request", "body": "help", "sent_date": "2024-05-01T10:00:00Z"},
			{"message_id": "msg-2", "sender_email": "b@example.com", "subject": "Newsletter", "body": "news", "sent_date": "2024-04-30T09:00:00Z"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	rows, err := client.FetchAllEmails(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "msg-1", rows[0].MessageID)
	assert.Equal(t, "a@example.com", rows[0].SenderEmail)
}

func TestFetchAllEmailsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchAllEmails(context.Background())
	assert.Error(t, err)
}
