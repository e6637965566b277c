package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-triage-go/internal/model"
	"email-triage-go/internal/queue"
)

type fakeCreator struct {
	emails []*model.Email
	nextID uint
}

func (f *fakeCreator) CreateEmail(email *model.Email) error {
	f.nextID++
	email.ID = f.nextID
	f.emails = append(f.emails, email)
	return nil
}

func TestIngestEmailEnqueuesWithScore(t *testing.T) {
	creator := &fakeCreator{}
	q := queue.New()
	svc := NewService(creator, q, nil)

	urgent, err := svc.IngestEmail("a@example.com", "Support", "this is urgent", time.Now())
	require.NoError(t, err)
	routine, err := svc.IngestEmail("b@example.com", "Hello", "just saying hi", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, q.Len())

	first, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, urgent.ID, first.EmailID)
	assert.Equal(t, 0, first.Score)

	second, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, routine.ID, second.EmailID)
	assert.Equal(t, 1, second.Score)
}

func TestIngestEmailDefaultsReceivedAt(t *testing.T) {
	svc := NewService(&fakeCreator{}, queue.New(), nil)

	before := time.Now().UTC()
	email, err := svc.IngestEmail("a@example.com", "Subject", "body", time.Time{})
	require.NoError(t, err)

	assert.False(t, email.ReceivedAt.Before(before))
}

func TestIngestCSV(t *testing.T) {
	csvData := `sender,subject,body,received_at
alice@example.com,Support request,I need help with setup,2024-05-01T10:00:00Z
bob@example.com,Cannot access account,This is urgent please help,2024-05-01 11:30:00
`
	creator := &fakeCreator{}
	q := queue.New()
	svc := NewService(creator, q, nil)

	inserted, err := svc.IngestCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	require.Len(t, creator.emails, 2)

	assert.Equal(t, "alice@example.com", creator.emails[0].Sender)
	assert.Equal(t, "Support request", creator.emails[0].Subject)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), creator.emails[0].ReceivedAt)

	// Urgent row dequeues before the routine one
	first, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, creator.emails[1].ID, first.EmailID)
	assert.Equal(t, 0, first.Score)
}

func TestIngestCSVHeaderAliases(t *testing.T) {
	csvData := `from,subject,email_body,date
carol@example.com,Question,What are your hours?,2024-06-15
`
	creator := &fakeCreator{}
	svc := NewService(creator, queue.New(), nil)

	inserted, err := svc.IngestCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, "carol@example.com", creator.emails[0].Sender)
	assert.Equal(t, "What are your hours?", creator.emails[0].Body)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), creator.emails[0].ReceivedAt)
}

func TestIngestCSVBadTimestampDefaultsToNow(t *testing.T) {
	csvData := `sender,subject,body,received_at
dave@example.com,Hi,hello,not-a-date
`
	creator := &fakeCreator{}
	svc := NewService(creator, queue.New(), nil)

	before := time.Now().UTC()
	inserted, err := svc.IngestCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.False(t, creator.emails[0].ReceivedAt.Before(before))
}

func TestIngestCSVMissingHeader(t *testing.T) {
	svc := NewService(&fakeCreator{}, queue.New(), nil)

	_, err := svc.IngestCSV(strings.NewReader(""))
	assert.Error(t, err)
}
