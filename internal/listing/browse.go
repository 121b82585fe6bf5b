package listing

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// BrowseState is a snapshot of the browse view.
type BrowseState struct {
	State      LoadState
	Err        error
	Filter     Filter
	Loaded     int
	Visible    []domain.Listing
	Pagination domain.Pagination
	Window     []PageItem
	CanNext    bool
	CanPrev    bool
}

// BrowseView is the filtered, paginated listing feed. The page and limit
// drive server requests; the filter narrows the loaded page locally.
type BrowseView struct {
	deps Deps

	mu     sync.Mutex
	runner *Runner
	pager  *Pager
	limit  int
	filter Filter
	posts  []domain.Listing
	state  LoadState
	err    error
}

// NewBrowseView creates an unmounted view with the given initial limit.
func NewBrowseView(deps Deps, limit int) (*BrowseView, error) {
	pager, err := NewPager(limit)
	if err != nil {
		return nil, err
	}
	return &BrowseView{
		deps:   deps.withDefaults(),
		pager:  pager,
		limit:  limit,
		filter: DefaultFilter(),
	}, nil
}

// Mount loads the first page. Mounting an unmounted view starts fresh.
func (v *BrowseView) Mount(ctx context.Context) error {
	return v.MountAt(ctx, 1)
}

// MountAt mounts the view directly on page.
func (v *BrowseView) MountAt(ctx context.Context, page int) error {
	v.mu.Lock()
	if v.runner == nil || v.runner.Closed() {
		v.runner = &Runner{}
	}
	v.mu.Unlock()
	return v.fetch(ctx, func(p *Pager) error { return p.SetPage(page) })
}

// Refresh reloads the current page.
func (v *BrowseView) Refresh(ctx context.Context) error {
	return v.fetch(ctx, nil)
}

// GoToPage loads page.
func (v *BrowseView) GoToPage(ctx context.Context, page int) error {
	return v.fetch(ctx, func(p *Pager) error { return p.SetPage(page) })
}

// Next loads the next page when the server reported one.
func (v *BrowseView) Next(ctx context.Context) error {
	return v.fetch(ctx, (*Pager).Next)
}

// Prev loads the previous page when the server reported one.
func (v *BrowseView) Prev(ctx context.Context) error {
	return v.fetch(ctx, (*Pager).Prev)
}

// SetLimit changes the page size and loads page 1.
func (v *BrowseView) SetLimit(ctx context.Context, limit int) error {
	return v.fetch(ctx, func(p *Pager) error { return p.SetLimit(limit) })
}

// SetFilter replaces the filter. It never fetches.
func (v *BrowseView) SetFilter(f Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

// Visible is the loaded page narrowed by the filter.
func (v *BrowseView) Visible() []domain.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Apply(v.posts, v.filter)
}

// State returns a snapshot of the view.
func (v *BrowseView) State() BrowseState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return BrowseState{
		State:      v.state,
		Err:        v.err,
		Filter:     v.filter,
		Loaded:     len(v.posts),
		Visible:    Apply(v.posts, v.filter),
		Pagination: v.pager.Pagination(),
		Window:     v.pager.Window(),
		CanNext:    v.pager.CanNext(),
		CanPrev:    v.pager.CanPrev(),
	}
}

// Unmount cancels the request in flight and resets the view.
func (v *BrowseView) Unmount() {
	v.mu.Lock()
	runner := v.runner
	v.mu.Unlock()
	if runner != nil {
		runner.Close()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager, _ = NewPager(v.limit)
	v.filter = DefaultFilter()
	v.posts = nil
	v.state = StateIdle
	v.err = nil
}

// fetch applies change to the pager and requests the resulting page.
func (v *BrowseView) fetch(ctx context.Context, change func(*Pager) error) error {
	v.mu.Lock()
	runner := v.runner
	if runner == nil || runner.Closed() {
		v.mu.Unlock()
		return domain.ErrUnmounted
	}
	if change != nil {
		if err := change(v.pager); err != nil {
			v.mu.Unlock()
			return err
		}
	}
	req := v.pager.Request()
	v.state = StateLoading
	v.mu.Unlock()

	logger := v.deps.Logger.With("page", req.Page, "limit", req.Limit)
	err := Run(ctx, runner,
		func(ctx context.Context) (*domain.PostPage, error) {
			return v.deps.API.ListPosts(ctx, req)
		},
		func(page *domain.PostPage, err error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if err != nil {
				v.pager.Rollback()
				v.state = StateError
				v.err = err
				return
			}
			v.posts = slices.Clone(page.Posts)
			v.pager.Apply(page.Pagination)
			v.state = StateReady
			v.err = nil
		},
	)
	if err != nil {
		report(ctx, logger, v.deps.Notifier, "browse", err, MsgLoadPostsFailed)
		return fmt.Errorf("load page %d: %w", req.Page, err)
	}
	logger.Debug("page loaded")
	return nil
}
