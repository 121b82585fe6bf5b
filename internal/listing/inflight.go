package listing

import (
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// inflight tracks operations that must not be submitted twice at once.
type inflight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// acquire marks key busy. It returns domain.ErrInFlight when key already is.
func (f *inflight) acquire(key string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.busy[key]; ok {
		return nil, domain.ErrInFlight
	}
	if f.busy == nil {
		f.busy = make(map[string]struct{})
	}
	f.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, nil
}

// active reports whether key is busy.
func (f *inflight) active(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.busy[key]
	return ok
}
