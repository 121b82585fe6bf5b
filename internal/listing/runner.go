package listing

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Runner runs one request at a time for a view. Starting a request cancels
// the one in flight, and a result is applied only if its request is still
// the latest and the view is still mounted.
//
// Closed never blocks on mu, so views may call it while holding their own
// lock even though settle takes that lock under mu.
type Runner struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	closed  atomic.Bool
	pending sync.WaitGroup
}

// Run executes fetch and, if its request is still current, calls settle
// with the outcome under the runner lock. It returns domain.ErrSuperseded
// when a newer Run started and domain.ErrUnmounted after Close; settle is
// not called then. A fetch error from a current request is returned as is.
func Run[T any](ctx context.Context, r *Runner, fetch func(context.Context) (T, error), settle func(T, error)) error {
	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		return domain.ErrUnmounted
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.pending.Add(1)
	r.mu.Unlock()

	defer r.pending.Done()
	defer cancel()

	v, err := fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.closed.Load():
		return domain.ErrUnmounted
	case seq != r.seq:
		return domain.ErrSuperseded
	}
	r.cancel = nil
	settle(v, err)
	return err
}

// Latest reports the sequence number of the newest request.
func (r *Runner) Latest() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Close unmounts the runner: the in-flight request is cancelled and its
// result discarded. Close waits for running fetches to return.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed.Store(true)
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
	r.pending.Wait()
}

// Closed reports whether the runner was unmounted.
func (r *Runner) Closed() bool {
	return r.closed.Load()
}
