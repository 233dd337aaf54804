// Package parallel provides the goroutine plumbing behind grid sampling and
// background rebuilds.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Run after the pool has been closed.
var ErrClosed = errors.New("parallel: pool closed")

// WorkerPool is a fixed set of goroutines that evaluates indexed jobs.
//
// Each worker has its own queue and steals from the others when its queue
// is empty, which balances columns whose evaluation cost differs.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds per-worker job queues.
	queues []chan func()

	// mu orders submission against Close so that no job is queued after
	// the workers have drained their queues.
	mu      sync.RWMutex
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case job := <-own:
				job()
			}
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			job()
		default:
			return
		}
	}
}

// steal takes a job from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Run calls fn(i) for every i in [0, n) across the workers and waits for
// all of them. Jobs not yet started when ctx is cancelled are skipped and
// Run returns ctx.Err().
func (p *WorkerPool) Run(ctx context.Context, n int, fn func(i int)) error {
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return ErrClosed
	}
	if n <= 0 {
		p.mu.RUnlock()
		return ctx.Err()
	}

	var pending sync.WaitGroup
	pending.Add(n)
	for i := range n {
		job := func() {
			defer pending.Done()
			if ctx.Err() != nil {
				return
			}
			fn(i)
		}
		select {
		case p.queues[i%p.workers] <- job:
			continue
		case <-ctx.Done():
		}
		pending.Add(-(n - i))
		break
	}
	p.mu.RUnlock()

	pending.Wait()
	return ctx.Err()
}

// Close stops the workers after the queued jobs have run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
