package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"email-triage-go/internal/classifier"
	"email-triage-go/internal/config"
	"email-triage-go/internal/metrics"
	"email-triage-go/internal/model"
	"email-triage-go/internal/queue"
)

// RecordStore is the pipeline's view of the email record store
type RecordStore interface {
	GetEmail(id uint) (*model.Email, error)
	UpdateClassification(id uint, c model.Classification) error
}

// Worker is the single background loop that drains the queue and classifies
// one email at a time
type Worker struct {
	store      RecordStore
	classifier classifier.Classifier
	queue      *queue.Queue
	metrics    *metrics.Metrics
	idlePoll   time.Duration
	throttle   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	isRunning  bool
}

// NewWorker creates a new pipeline worker
func NewWorker(store RecordStore, clf classifier.Classifier, q *queue.Queue, m *metrics.Metrics, cfg config.WorkerConfig) *Worker {
	return &Worker{
		store:      store,
		classifier: clf,
		queue:      q,
		metrics:    m,
		idlePoll:   cfg.IdlePollInterval,
		throttle:   cfg.Throttle,
	}
}

// Start launches the worker goroutine
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.isRunning = true

	w.wg.Add(1)
	go w.run()

	logrus.Info("Pipeline worker started")
	return nil
}

// Stop signals the worker to exit after the current iteration
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}

	w.cancel()
	w.isRunning = false

	logrus.Info("Pipeline worker stopping")
	return nil
}

// IsRunning returns whether the worker is running
func (w *Worker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.isRunning
}

// Wait waits for the worker goroutine to exit
func (w *Worker) Wait() {
	w.wg.Wait()
}

// QueueDepth returns the number of pending classification requests
func (w *Worker) QueueDepth() int {
	return w.queue.Len()
}

func (w *Worker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		entry, ok := w.queue.TryDequeue()
		if w.metrics != nil {
			w.metrics.QueueDepth.Set(float64(w.queue.Len()))
		}
		if !ok {
			// Idle poll, not an error
			w.sleep(w.idlePoll)
			continue
		}

		w.processEmail(w.ctx, entry.EmailID)
		w.sleep(w.throttle)
	}
}

// sleep waits for the given duration or until the worker is stopped
func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.ctx.Done():
	case <-time.After(d):
	}
}

// processEmail classifies a single email and persists the result. All
// failures are absorbed here; a bad record never terminates the worker.
func (w *Worker) processEmail(ctx context.Context, id uint) {
	email, err := w.store.GetEmail(id)
	if err != nil {
		logrus.Errorf("Failed to load email %d: %v", id, err)
		return
	}
	if email == nil {
		// Deleted between enqueue and processing
		logrus.Debugf("Email %d no longer exists, skipping", id)
		return
	}

	start := time.Now()

	result, err := w.classifier.Classify(ctx, email.Body)
	if err != nil || result == nil {
		logrus.Errorf("Classification failed for email %d: %v", id, err)
		if w.metrics != nil {
			w.metrics.ClassificationFailures.Inc()
		}
		result = classifier.FallbackResult()
	} else if w.metrics != nil {
		w.metrics.ClassificationSuccesses.Inc()
	}

	extracted := result.Extracted
	if extracted == "" {
		extracted = result.Summary
	}

	reply := result.Reply
	if reply == "" {
		reply, err = w.classifier.GenerateReply(ctx, email.Body, "")
		if err != nil || reply == "" {
			reply = classifier.FallbackReply
		}
	}
	if reply == classifier.FallbackReply && w.metrics != nil {
		w.metrics.FallbackReplies.Inc()
	}

	c := model.Classification{
		Sentiment:     classifier.NormalizeSentiment(result.Sentiment),
		Priority:      PriorityLabel(email.Subject, email.Body),
		ExtractedInfo: extracted,
		AIReply:       reply,
	}

	if err := w.store.UpdateClassification(email.ID, c); err != nil {
		logrus.Errorf("Failed to persist classification for email %d: %v", id, err)
		return
	}

	if w.metrics != nil {
		w.metrics.ClassificationTime.Observe(time.Since(start).Seconds())
	}

	logrus.Infof("Classified email %d in %v (sentiment=%s, priority=%s)", id, time.Since(start), c.Sentiment, c.Priority)
}
