// Package taskpool implements a bounded worker pool for CPU-heavy work such
// as password hashing. Work is queued on a fixed-size channel drained by a
// fixed number of goroutines, so hashing never competes with goroutines
// that are servicing I/O.
package taskpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userstore/internal/common"
	"golang.org/x/sync/errgroup"
)

// Pool is a fixed set of workers draining a bounded queue. The zero value is
// not usable; construct with New.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	g      *errgroup.Group
}

// New starts a pool with the given number of workers and queue capacity.
// Both values must be at least 1.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		tasks: make(chan func(), queueSize),
		g:     &errgroup.Group{},
	}

	for i := 0; i < workers; i++ {
		p.g.Go(func() error {
			for fn := range p.tasks {
				fn()
			}
			return nil
		})
	}

	return p
}

// Submit enqueues fn for execution without blocking. If the queue is full or
// the pool has been closed, it returns an error wrapping
// common.ErrTaskDispatch. A cancelled ctx is reported as ctx.Err().
//
// Submit only queues the work; the caller is expected to wait for a result
// on its own channel.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("%w: pool is closed", common.ErrTaskDispatch)
	}

	select {
	case p.tasks <- fn:
		return nil
	default:
		return fmt.Errorf("%w: queue is full", common.ErrTaskDispatch)
	}
}

// Close stops accepting new work, waits for queued tasks to finish and joins
// the workers. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	_ = p.g.Wait()
}
