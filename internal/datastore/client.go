// Package datastore provides a read-only client for the external email data
// store (a Supabase-style REST interface over a single table).
package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"email-triage-go/internal/config"
)

// StoreEmail is one row of the external email table
type StoreEmail struct {
	MessageID   string `json:"message_id"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	SentDate    string `json:"sent_date"`
}

// Client fetches email rows from the external data store
type Client struct {
	baseURL    string
	serviceKey string
	table      string
	httpClient *http.Client
}

// NewClient creates a new data store client
func NewClient(cfg config.DatastoreConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		serviceKey: cfg.ServiceKey,
		table:      cfg.Table,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchAllEmails returns all rows of the email table, newest first
func (c *Client) FetchAllEmails(ctx context.Context) ([]StoreEmail, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=*&order=sent_date.desc", c.baseURL, url.PathEscape(c.table))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create data store request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("data store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data store returned status %d", resp.StatusCode)
	}

	var rows []StoreEmail
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode data store response: %w", err)
	}

	return rows, nil
}
