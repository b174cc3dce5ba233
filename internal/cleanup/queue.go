// Package cleanup retries object deletions that failed after a record
// write. Jobs are queued in memory or in Redis and drained by a Worker.
package cleanup

import (
	"context"
	"sync"
	"time"
)

// Job is one pending object deletion.
type Job struct {
	Key        string    `json:"key"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue is a FIFO of cleanup jobs.
type Queue interface {
	Push(ctx context.Context, job Job) error
	// Pop removes the oldest job. ok is false when the queue is empty.
	Pop(ctx context.Context) (job Job, ok bool, err error)
	Len(ctx context.Context) (int, error)
}

// MemoryQueue is a process-local Queue.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []Job
}

// NewMemoryQueue returns an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue { return &MemoryQueue{} }

// Push appends job.
func (q *MemoryQueue) Push(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

// Pop removes the oldest job.
func (q *MemoryQueue) Pop(_ context.Context) (Job, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return Job{}, false, nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true, nil
}

// Len reports the number of queued jobs.
func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs), nil
}
