package listing

import (
	"context"
	"slices"
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// RecentCount is how many listings the home grid shows.
const RecentCount = 6

// RecentView is the home grid: the newest listings from the first page.
type RecentView struct {
	deps Deps

	mu     sync.Mutex
	runner *Runner
	posts  []domain.Listing
	state  LoadState
	err    error
}

// NewRecentView creates an unmounted view.
func NewRecentView(deps Deps) *RecentView {
	return &RecentView{deps: deps.withDefaults(), runner: &Runner{}}
}

// Load fetches the first page and keeps up to RecentCount listings.
func (v *RecentView) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.runner.Closed() {
		v.runner = &Runner{}
	}
	runner := v.runner
	v.state = StateLoading
	v.mu.Unlock()

	err := Run(ctx, runner,
		func(ctx context.Context) (*domain.PostPage, error) {
			return v.deps.API.ListPosts(ctx, domain.PageRequest{})
		},
		func(page *domain.PostPage, err error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if err != nil {
				v.state, v.err = StateError, err
				return
			}
			posts := page.Posts
			if len(posts) > RecentCount {
				posts = posts[:RecentCount]
			}
			v.posts = slices.Clone(posts)
			v.state, v.err = StateReady, nil
		},
	)
	if err != nil {
		report(ctx, v.deps.Logger, v.deps.Notifier, "recent", err, MsgLoadPostsFailed)
	}
	return err
}

// Posts returns the loaded listings.
func (v *RecentView) Posts() []domain.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.posts)
}

// State reports the load state and the last error.
func (v *RecentView) State() (LoadState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.err
}

// Unmount discards any request in flight and the loaded listings.
func (v *RecentView) Unmount() {
	v.mu.Lock()
	runner := v.runner
	v.mu.Unlock()
	runner.Close()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts, v.state, v.err = nil, StateIdle, nil
}
