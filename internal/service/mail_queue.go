package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("mail queue full")
	ErrQueueClosed = errors.New("mail queue closed")
)

const sendTimeout = 30 * time.Second

// FailureFunc runs on a worker after m could not be sent
type FailureFunc func(m *Mail, err error)

type mailJob struct {
	mail   *Mail
	onFail FailureFunc
}

// MailQueue sends mails in the background. Enqueue never blocks, failed
// sends are logged and dropped.
type MailQueue struct {
	mailer  Mailer
	jobs    chan mailJob
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	pending atomic.Int32
	sent    atomic.Int64
	failed  atomic.Int64
}

// NewMailQueue initializes a new queue that holds at most size mails
// waiting for one of the workers
func NewMailQueue(m Mailer, workers, size int) *MailQueue {
	if workers <= 0 {
		workers = 1
	}

	if size <= 0 {
		size = 100
	}

	zap.L().Debug("Initializing mail queue", zap.Int("workers", workers), zap.Int("size", size))

	return &MailQueue{
		mailer:  m,
		jobs:    make(chan mailJob, size),
		workers: workers,
	}
}

func (q *MailQueue) StartWorkerPool() {
	for range q.workers {
		q.wg.Add(1)
		go q.worker()
	}
}

func (q *MailQueue) worker() {
	defer q.wg.Done()

	for job := range q.jobs {
		m := job.mail

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := q.mailer.Send(ctx, m)
		cancel()

		q.pending.Add(-1)

		if err != nil {
			q.failed.Add(1)
			zap.L().Error("Failed to send mail",
				zap.String("to", m.To),
				zap.String("subject", m.Subject),
				zap.Error(err))

			if job.onFail != nil {
				job.onFail(m, err)
			}
			continue
		}

		q.sent.Add(1)
		zap.L().Debug("Mail sent", zap.String("to", m.To), zap.String("subject", m.Subject))
	}
}

func (q *MailQueue) Enqueue(m *Mail) error {
	return q.EnqueueWithFallback(m, nil)
}

// EnqueueWithFallback is Enqueue with onFail called if the send fails. It
// isn't called when the mail can't be queued in the first place, that
// error is returned instead.
func (q *MailQueue) EnqueueWithFallback(m *Mail, onFail FailureFunc) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.pending.Add(1)

	select {
	case q.jobs <- mailJob{mail: m, onFail: onFail}:
		zap.L().Debug("New mail enqueued", zap.Int32("pending", q.pending.Load()), zap.String("to", m.To))
		return nil
	default:
		q.pending.Add(-1)
		return ErrQueueFull
	}
}

// Close stops accepting mails and waits for the workers to drain the queue
// or for ctx to end
func (q *MailQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the number of mails sent and failed so far
func (q *MailQueue) Stats() (sent, failed int64) {
	return q.sent.Load(), q.failed.Load()
}
