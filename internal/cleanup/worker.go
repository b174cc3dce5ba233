package cleanup

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deleter removes stored objects. blob.Store satisfies it.
type Deleter interface {
	Delete(ctx context.Context, key string) (bool, error)
}

// Defaults for NewWorker.
const (
	DefaultInterval    = 30 * time.Second
	DefaultMaxAttempts = 5
)

// Option customises a Worker.
type Option func(*Worker)

// WithInterval sets the pause between drains.
func WithInterval(d time.Duration) Option { return func(w *Worker) { w.interval = d } }

// WithMaxAttempts sets the number of failed deletions after which a job is dropped.
func WithMaxAttempts(n int) Option { return func(w *Worker) { w.maxAttempts = n } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(w *Worker) { w.log = l } }

// WithOutcomes counts job results by outcome label (deleted, retried, dropped).
func WithOutcomes(c *prometheus.CounterVec) Option { return func(w *Worker) { w.outcomes = c } }

// Worker drains a Queue, deleting each job's object and re-queueing failures
// until the attempt budget is spent.
type Worker struct {
	queue       Queue
	blobs       Deleter
	interval    time.Duration
	maxAttempts int
	log         *zap.Logger
	outcomes    *prometheus.CounterVec
	now         func() time.Time
}

// NewWorker builds a worker over queue and blobs.
func NewWorker(queue Queue, blobs Deleter, opts ...Option) *Worker {
	w := &Worker{
		queue:       queue,
		blobs:       blobs,
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		log:         zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue records a failed deletion for retry.
func (w *Worker) Enqueue(ctx context.Context, key string, cause error) error {
	job := Job{Key: key, Attempts: 1, EnqueuedAt: w.now()}
	if cause != nil {
		job.LastError = cause.Error()
	}
	return w.queue.Push(ctx, job)
}

// Run drains the queue every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.log.Warn("cleanup drain failed", zap.Error(err))
			}
		}
	}
}

// Drain processes the jobs queued when it starts and returns how many
// objects were deleted. Failed jobs are pushed back for the next drain.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	pending, err := w.queue.Len(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for i := 0; i < pending; i++ {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		job, ok, err := w.queue.Pop(ctx)
		if err != nil {
			return deleted, err
		}
		if !ok {
			break
		}
		_, delErr := w.blobs.Delete(ctx, job.Key)
		if delErr == nil {
			deleted++
			w.count("deleted")
			continue
		}
		job.Attempts++
		job.LastError = delErr.Error()
		if job.Attempts >= w.maxAttempts {
			w.count("dropped")
			w.log.Error("cleanup job dropped",
				zap.String("key", job.Key),
				zap.Int("attempts", job.Attempts),
				zap.String("last_error", job.LastError))
			continue
		}
		w.count("retried")
		if err := w.queue.Push(ctx, job); err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (w *Worker) count(outcome string) {
	if w.outcomes != nil {
		w.outcomes.WithLabelValues(outcome).Inc()
	}
}
