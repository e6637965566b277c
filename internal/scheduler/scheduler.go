package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"email-triage-go/internal/config"
	"email-triage-go/internal/datastore"
	"email-triage-go/internal/ingest"
	"email-triage-go/internal/metrics"
	"email-triage-go/internal/pipeline"
)

// Scheduler periodically pulls emails from the external data store and
// ingests the support-related ones
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SyncConfig
	store     *datastore.Client
	ingestor  *ingest.Service
	metrics   *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

// NewScheduler creates a new sync scheduler
func NewScheduler(cfg *config.SyncConfig, store *datastore.Client, ingestor *ingest.Service, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		config:   cfg,
		store:    store,
		ingestor: ingestor,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	schedule := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.syncEmails)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Sync scheduler started with interval: %d minutes", s.config.IntervalMinutes)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Sync scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Sync scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// syncEmails pulls from the external data store and ingests support emails
func (s *Scheduler) syncEmails() {
	s.wg.Add(1)
	defer s.wg.Done()

	logrus.Info("Starting external store sync cycle")

	if s.ctx.Err() != nil {
		logrus.Info("Scheduler stopped, skipping sync cycle")
		return
	}

	startTime := time.Now()
	s.metrics.SyncPulls.Inc()

	rows, err := s.store.FetchAllEmails(s.ctx)
	if err != nil {
		logrus.Errorf("Failed to fetch emails from data store: %v", err)
		s.metrics.SyncErrors.Inc()
		return
	}

	logrus.Infof("Fetched %d emails from data store", len(rows))

	ingested := 0
	for _, row := range rows {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if !pipeline.IsSupportRelated(row.Subject) {
			continue
		}

		receivedAt := parseSentDate(row.SentDate)
		if _, err := s.ingestor.IngestEmail(row.SenderEmail, row.Subject, row.Body, receivedAt); err != nil {
			logrus.Errorf("Failed to ingest email %s: %v", row.MessageID, err)
			continue
		}
		ingested++
	}

	logrus.Infof("Sync cycle completed in %v, ingested %d emails", time.Since(startTime), ingested)
}

// RunOnce runs the sync once (for manual triggering)
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running external store sync once")
	s.syncEmails()
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// Wait waits for any in-flight sync cycle to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// parseSentDate parses the data store's sent_date column, defaulting to now
func parseSentDate(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t
	}
	return time.Now().UTC()
}
