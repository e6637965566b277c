package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-triage-go/internal/classifier"
	"email-triage-go/internal/config"
	"email-triage-go/internal/model"
	"email-triage-go/internal/queue"
)

type fakeStore struct {
	mu      sync.Mutex
	emails  map[uint]*model.Email
	updates []uint
}

func newFakeStore(emails ...*model.Email) *fakeStore {
	s := &fakeStore{emails: make(map[uint]*model.Email)}
	for _, e := range emails {
		s.emails[e.ID] = e
	}
	return s
}

func (s *fakeStore) GetEmail(id uint) (*model.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[id]
	if !ok {
		return nil, nil
	}
	copied := *email
	return &copied, nil
}

func (s *fakeStore) UpdateClassification(id uint, c model.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[id]
	if !ok {
		return fmt.Errorf("email %d not found", id)
	}
	email.Sentiment = c.Sentiment
	email.Priority = c.Priority
	email.ExtractedInfo = c.ExtractedInfo
	email.AIReply = c.AIReply
	s.updates = append(s.updates, id)
	return nil
}

func (s *fakeStore) get(id uint) model.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.emails[id]
}

func (s *fakeStore) updateOrder() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.updates...)
}

type fakeClassifier struct {
	result      *classifier.Result
	classifyErr error
	reply       string
	replyErr    error
}

func (f *fakeClassifier) Classify(ctx context.Context, body string) (*classifier.Result, error) {
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	copied := *f.result
	return &copied, nil
}

func (f *fakeClassifier) GenerateReply(ctx context.Context, body, kbContext string) (string, error) {
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func newTestWorker(store RecordStore, clf classifier.Classifier, q *queue.Queue) *Worker {
	return NewWorker(store, clf, q, nil, config.WorkerConfig{
		IdlePollInterval: 10 * time.Millisecond,
		Throttle:         time.Millisecond,
	})
}

func TestProcessEmailStoresServiceResult(t *testing.T) {
	store := newFakeStore(&model.Email{
		ID:      1,
		Subject: "Feedback",
		Body:    "I love the product, just one question about invoices",
	})
	clf := &fakeClassifier{result: &classifier.Result{
		Sentiment: "Positive",
		Summary:   "Happy customer with a billing question",
		Extracted: "invoice question",
		Reply:     "Thanks!",
	}}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 1)

	email := store.get(1)
	assert.Equal(t, model.SentimentPositive, email.Sentiment)
	assert.Equal(t, model.PriorityNotUrgent, email.Priority)
	assert.Equal(t, "invoice question", email.ExtractedInfo)
	assert.Equal(t, "Thanks!", email.AIReply)
}

func TestProcessEmailExtractedFallsBackToSummary(t *testing.T) {
	store := newFakeStore(&model.Email{ID: 2, Subject: "Hi", Body: "hello"})
	clf := &fakeClassifier{result: &classifier.Result{
		Sentiment: "Neutral",
		Summary:   "A greeting",
		Reply:     "Hello!",
	}}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 2)

	assert.Equal(t, "A greeting", store.get(2).ExtractedInfo)
}

func TestProcessEmailServiceFailureUsesFallback(t *testing.T) {
	store := newFakeStore(&model.Email{
		ID:      3,
		Subject: "Account problem",
		Body:    "Please help, this is urgent and I cannot access my account",
	})
	clf := &fakeClassifier{classifyErr: fmt.Errorf("api unreachable")}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 3)

	email := store.get(3)
	assert.Equal(t, model.SentimentNeutral, email.Sentiment)
	assert.Equal(t, "", email.ExtractedInfo)
	assert.Equal(t, classifier.FallbackReply, email.AIReply)
	// Priority is computed from keywords even when the service fails
	assert.Equal(t, model.PriorityUrgent, email.Priority)
}

func TestProcessEmailSecondaryReplyGeneration(t *testing.T) {
	store := newFakeStore(&model.Email{ID: 4, Subject: "Setup", Body: "how do I install this"})
	clf := &fakeClassifier{
		result: &classifier.Result{Sentiment: "Neutral", Summary: "install question"},
		reply:  "Here is how to install it.",
	}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 4)

	assert.Equal(t, "Here is how to install it.", store.get(4).AIReply)
}

func TestProcessEmailSecondaryReplyFailure(t *testing.T) {
	store := newFakeStore(&model.Email{ID: 5, Subject: "Setup", Body: "how do I install this"})
	clf := &fakeClassifier{
		result:   &classifier.Result{Sentiment: "Neutral"},
		replyErr: fmt.Errorf("api unreachable"),
	}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 5)

	assert.Equal(t, classifier.FallbackReply, store.get(5).AIReply)
}

func TestProcessEmailMissingRecordIsNoOp(t *testing.T) {
	store := newFakeStore()
	clf := &fakeClassifier{result: &classifier.Result{Sentiment: "Positive", Reply: "hi"}}

	w := newTestWorker(store, clf, queue.New())
	w.processEmail(context.Background(), 99)

	assert.Empty(t, store.updateOrder())
}

func TestReprocessingReplacesAllFields(t *testing.T) {
	store := newFakeStore(&model.Email{ID: 6, Subject: "Question", Body: "a question"})

	first := &fakeClassifier{result: &classifier.Result{
		Sentiment: "Negative",
		Extracted: "old info",
		Reply:     "old reply",
	}}
	w := newTestWorker(store, first, queue.New())
	w.processEmail(context.Background(), 6)

	second := &fakeClassifier{result: &classifier.Result{
		Sentiment: "Positive",
		Extracted: "new info",
		Reply:     "new reply",
	}}
	w = newTestWorker(store, second, queue.New())
	w.processEmail(context.Background(), 6)

	email := store.get(6)
	assert.Equal(t, model.SentimentPositive, email.Sentiment)
	assert.Equal(t, "new info", email.ExtractedInfo)
	assert.Equal(t, "new reply", email.AIReply)
}

func TestWorkerDrainsQueueInPriorityOrder(t *testing.T) {
	store := newFakeStore(
		&model.Email{ID: 1, Subject: "a", Body: "not pressing"},
		&model.Email{ID: 2, Subject: "b", Body: "this is urgent"},
		&model.Email{ID: 3, Subject: "c", Body: "also not pressing"},
	)
	clf := &fakeClassifier{result: &classifier.Result{Sentiment: "Neutral", Reply: "ok"}}

	q := queue.New()
	q.Enqueue(1, 1)
	q.Enqueue(0, 2)
	q.Enqueue(1, 3)

	w := newTestWorker(store, clf, q)
	require.NoError(t, w.Start())
	defer func() {
		w.Stop()
		w.Wait()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.updateOrder()) == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	order := store.updateOrder()
	require.Len(t, order, 3)
	// The urgent entry (score 0) must be processed first
	assert.Equal(t, uint(2), order[0])
}

func TestWorkerRestart(t *testing.T) {
	w := newTestWorker(newFakeStore(), &fakeClassifier{result: &classifier.Result{}}, queue.New())

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start())

	require.NoError(t, w.Stop())
	w.Wait()
	assert.False(t, w.IsRunning())

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	w.Stop()
	w.Wait()
}
