package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// timestampLayouts are tried in order when parsing the received_at column
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// columnAliases maps canonical column names to accepted CSV header names
var columnAliases = map[string][]string{
	"sender":      {"sender", "from"},
	"subject":     {"subject"},
	"body":        {"body", "email_body"},
	"received_at": {"received_at", "date"},
}

// IngestCSV reads email rows from a CSV stream and ingests each one.
// Returns the number of inserted records.
func (s *Service) IngestCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := resolveColumns(header)

	inserted := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("Skipping malformed CSV row: %v", err)
			continue
		}

		sender := columnValue(row, columns, "sender")
		subject := columnValue(row, columns, "subject")
		body := columnValue(row, columns, "body")
		receivedAt := parseTimestamp(columnValue(row, columns, "received_at"))

		if _, err := s.IngestEmail(sender, subject, body, receivedAt); err != nil {
			return inserted, fmt.Errorf("failed to ingest CSV row: %w", err)
		}
		inserted++
	}

	return inserted, nil
}

// resolveColumns maps canonical column names to indices in the header row
func resolveColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for name, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), alias) {
					columns[name] = i
					break
				}
			}
			if _, ok := columns[name]; ok {
				break
			}
		}
	}
	return columns
}

func columnValue(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseTimestamp parses a received_at value, defaulting to now when the value
// is missing or unparsable
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
