package parallel

import (
	"context"
	"errors"
	"sync"
)

// Latest runs background jobs where only the most recent one matters.
//
// Starting a job cancels the context of the previous one. A job that has
// been superseded, or that finishes after Close, never publishes its
// result. Published results are delivered in start order.
type Latest[T any] struct {
	publish func(T)
	fail    func(error)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool

	// pubMu serialises the "still current?" check with the publish call.
	pubMu sync.Mutex
	wg    sync.WaitGroup
}

// NewLatest returns a runner delivering results to publish. fail, if not
// nil, receives errors other than context cancellation from current jobs.
func NewLatest[T any](publish func(T), fail func(error)) *Latest[T] {
	return &Latest[T]{publish: publish, fail: fail}
}

// Go starts job, cancelling the previous one. It is a no-op after Close.
func (l *Latest[T]) Go(job func(ctx context.Context) (T, error)) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer cancel()

		v, err := job(ctx)

		l.pubMu.Lock()
		defer l.pubMu.Unlock()
		if !l.current(seq) {
			return
		}
		if err != nil {
			if l.fail != nil && !errors.Is(err, context.Canceled) {
				l.fail(err)
			}
			return
		}
		l.publish(v)
	}()
}

func (l *Latest[T]) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed && seq == l.seq
}

// Wait blocks until every started job has returned.
func (l *Latest[T]) Wait() {
	l.wg.Wait()
}

// Close cancels the running job and waits for all jobs to return.
// Close is safe to call multiple times.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}
