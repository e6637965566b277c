// Package ingest creates email records and enqueues them for classification.
package ingest

import (
	"time"

	"email-triage-go/internal/metrics"
	"email-triage-go/internal/model"
	"email-triage-go/internal/pipeline"
	"email-triage-go/internal/queue"
)

// RecordCreator is the ingestion view of the email record store
type RecordCreator interface {
	CreateEmail(email *model.Email) error
}

// Service inserts new email records and enqueues their ids with a priority
// score computed from the urgent-keyword policy
type Service struct {
	store   RecordCreator
	queue   *queue.Queue
	metrics *metrics.Metrics
}

// NewService creates a new ingestion service
func NewService(store RecordCreator, q *queue.Queue, m *metrics.Metrics) *Service {
	return &Service{store: store, queue: q, metrics: m}
}

// IngestEmail inserts one email record and enqueues it. A zero receivedAt
// defaults to the current time. Classification happens asynchronously; the
// returned record is still unclassified.
func (s *Service) IngestEmail(sender, subject, body string, receivedAt time.Time) (*model.Email, error) {
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	email := &model.Email{
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		ReceivedAt: receivedAt,
	}
	if err := s.store.CreateEmail(email); err != nil {
		return nil, err
	}

	score := pipeline.QueueScore(subject, body)
	s.queue.Enqueue(score, email.ID)

	if s.metrics != nil {
		s.metrics.EmailsIngested.Inc()
		s.metrics.QueueDepth.Set(float64(s.queue.Len()))
	}

	return email, nil
}
