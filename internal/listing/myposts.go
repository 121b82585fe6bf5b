package listing

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// MyPostsView lists the signed-in user's own listings and deletes them.
type MyPostsView struct {
	deps Deps

	mu     sync.Mutex
	runner *Runner
	posts  []domain.Listing
	state  LoadState
	err    error

	deleting inflight
}

// NewMyPostsView creates an unmounted view.
func NewMyPostsView(deps Deps) *MyPostsView {
	return &MyPostsView{deps: deps.withDefaults(), runner: &Runner{}}
}

// Load fetches the user's listings.
func (v *MyPostsView) Load(ctx context.Context) error {
	id, err := v.deps.identity()
	if err != nil {
		report(ctx, v.deps.Logger, v.deps.Notifier, "my-posts", err, MsgLoadMyPostsFailed)
		return err
	}

	v.mu.Lock()
	if v.runner.Closed() {
		v.runner = &Runner{}
	}
	runner := v.runner
	v.state = StateLoading
	v.mu.Unlock()

	err = Run(ctx, runner,
		func(ctx context.Context) ([]domain.Listing, error) {
			return v.deps.API.MyPosts(ctx, id.Email)
		},
		func(posts []domain.Listing, err error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if err != nil {
				v.state, v.err = StateError, err
				return
			}
			v.posts = slices.Clone(posts)
			v.state, v.err = StateReady, nil
		},
	)
	if err != nil {
		report(ctx, v.deps.Logger, v.deps.Notifier, "my-posts", err, MsgLoadMyPostsFailed)
	}
	return err
}

// Posts returns the loaded listings.
func (v *MyPostsView) Posts() []domain.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.posts)
}

// State reports the load state and the last error.
func (v *MyPostsView) State() (LoadState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.err
}

// Deleting reports whether a delete is in flight.
func (v *MyPostsView) Deleting() bool {
	return v.deleting.active("delete")
}

// Delete removes the listing on the server and, only after the server
// confirmed, from the loaded list. One delete runs at a time.
func (v *MyPostsView) Delete(ctx context.Context, postID string) error {
	logger := v.deps.Logger.With("post_id", postID)
	id, err := v.deps.identity()
	if err != nil {
		report(ctx, logger, v.deps.Notifier, "delete", err, MsgDeleteFailed)
		return err
	}
	release, err := v.deleting.acquire("delete")
	if err != nil {
		report(ctx, logger, v.deps.Notifier, "delete", err, MsgDeleteFailed)
		return err
	}
	defer release()

	if err := v.deps.API.DeletePost(ctx, postID, id.Email); err != nil {
		report(ctx, logger, v.deps.Notifier, "delete", err, MsgDeleteFailed)
		return fmt.Errorf("delete post %s: %w", postID, err)
	}

	v.mu.Lock()
	if !v.runner.Closed() {
		v.posts = slices.DeleteFunc(v.posts, func(l domain.Listing) bool { return l.ID == postID })
	}
	v.mu.Unlock()

	logger.Info("post deleted")
	v.deps.Notifier.Notify(Notice{Level: LevelSuccess, Message: MsgDeleted})
	return nil
}

// Unmount discards any request in flight and the loaded listings.
func (v *MyPostsView) Unmount() {
	v.mu.Lock()
	runner := v.runner
	v.mu.Unlock()
	runner.Close()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts, v.state, v.err = nil, StateIdle, nil
}
