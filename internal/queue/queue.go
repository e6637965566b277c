// Package queue provides the in-memory priority queue that feeds the
// classification pipeline. Lower scores dequeue first. Entries are lost on
// process restart.
package queue

import (
	"container/heap"
	"sync"
)

// Entry is a pending classification request
type Entry struct {
	Score   int
	EmailID uint
	seq     uint64
}

type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(Entry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// Queue is a process-scoped priority queue safe for concurrent enqueue from
// request handlers and non-blocking dequeue from the pipeline worker
type Queue struct {
	mu      sync.Mutex
	entries entryHeap
	seq     uint64
}

// New creates an empty queue
func New() *Queue {
	return &Queue{}
}

// Enqueue inserts an entry. Duplicate email ids are permitted; a record
// enqueued twice is classified twice.
func (q *Queue) Enqueue(score int, emailID uint) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	heap.Push(&q.entries, Entry{Score: score, EmailID: emailID, seq: q.seq})
}

// TryDequeue removes and returns the lowest-score entry without blocking.
// The second return value is false when the queue is empty.
func (q *Queue) TryDequeue() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return heap.Pop(&q.entries).(Entry), true
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
