package listing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// ClaimForm is what a user enters to mark a listing as recovered.
type ClaimForm struct {
	Location string    `json:"location" validate:"notblank"`
	Date     time.Time `json:"date" validate:"required,notfuture"`
}

// DetailView shows one listing and records its recovery.
type DetailView struct {
	deps Deps

	mu        sync.Mutex
	runner    *Runner
	post      *domain.Listing
	state     LoadState
	err       error
	claimOpen bool

	claiming inflight
}

// NewDetailView creates an unmounted view.
func NewDetailView(deps Deps) *DetailView {
	return &DetailView{deps: deps.withDefaults(), runner: &Runner{}}
}

// Load fetches the listing. Details are behind the session.
func (v *DetailView) Load(ctx context.Context, postID string) error {
	logger := v.deps.Logger.With("post_id", postID)
	id, err := v.deps.identity()
	if err != nil {
		report(ctx, logger, v.deps.Notifier, "detail", err, MsgLoadPostFailed)
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
		func(ctx context.Context) (*domain.Listing, error) {
			return v.deps.API.GetPost(ctx, postID, id.Email)
		},
		func(post *domain.Listing, err error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if err != nil {
				v.state, v.err = StateError, err
				return
			}
			p := *post
			v.post = &p
			v.claimOpen = false
			v.state, v.err = StateReady, nil
		},
	)
	if err != nil {
		report(ctx, logger, v.deps.Notifier, "detail", err, MsgLoadPostFailed)
	}
	return err
}

// Post returns the loaded listing.
func (v *DetailView) Post() (domain.Listing, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.post == nil {
		return domain.Listing{}, false
	}
	return *v.post, true
}

// State reports the load state and the last error.
func (v *DetailView) State() (LoadState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.err
}

// CanClaim reports whether the claim action is offered.
func (v *DetailView) CanClaim() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.post != nil && !v.post.IsRecovered()
}

// OpenClaim opens the claim form for an open listing.
func (v *DetailView) OpenClaim() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.post == nil:
		return domain.ErrNotFound
	case v.post.IsRecovered():
		return domain.ErrAlreadyRecovered
	}
	v.claimOpen = true
	return nil
}

// CloseClaim closes the claim form.
func (v *DetailView) CloseClaim() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.claimOpen = false
}

// ClaimOpen reports whether the claim form is open.
func (v *DetailView) ClaimOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.claimOpen
}

// Claiming reports whether a claim is in flight.
func (v *DetailView) Claiming() bool {
	return v.claiming.active("claim")
}

// Claim records the recovery of the loaded listing. It is rejected locally
// when the listing is already recovered; the server enforces the same rule.
// On success the listing is marked recovered and the claim form closes.
func (v *DetailView) Claim(ctx context.Context, form ClaimForm) error {
	v.mu.Lock()
	var post domain.Listing
	loaded := v.post != nil
	if loaded {
		post = *v.post
	}
	v.mu.Unlock()

	logger := v.deps.Logger.With("post_id", post.ID)
	fail := func(err error) error {
		report(ctx, logger, v.deps.Notifier, "claim", err, MsgClaimFailed)
		return err
	}

	id, err := v.deps.identity()
	switch {
	case err != nil:
		return fail(err)
	case !loaded:
		return fail(domain.ErrNotFound)
	case post.IsRecovered():
		return fail(domain.ErrAlreadyRecovered)
	}
	if err := v.deps.Validator.Struct(form); err != nil {
		return fail(err)
	}

	release, err := v.claiming.acquire("claim")
	if err != nil {
		return fail(err)
	}
	defer release()

	record := domain.RecoveryRecord{
		PostID:            post.ID,
		RecoveredLocation: strings.TrimSpace(form.Location),
		RecoveryDate:      form.Date,
		RecoveredBy: domain.Claimant{
			Name:  id.DisplayName,
			Email: id.Email,
			Image: id.PhotoURL,
		},
		OriginalPost: domain.SnapshotOf(post),
	}
	if err := v.deps.API.RecoverItem(ctx, id.Email, record); err != nil {
		report(ctx, logger, v.deps.Notifier, "claim", err, MsgClaimFailed)
		return fmt.Errorf("claim post %s: %w", post.ID, err)
	}

	v.mu.Lock()
	if v.post != nil && v.post.ID == post.ID {
		v.post.Status = domain.StatusRecovered
	}
	v.claimOpen = false
	v.mu.Unlock()

	logger.Info("item recovered")
	v.deps.Notifier.Notify(Notice{Level: LevelSuccess, Message: MsgClaimed})
	return nil
}

// Unmount discards any request in flight and the loaded listing.
func (v *DetailView) Unmount() {
	v.mu.Lock()
	runner := v.runner
	v.mu.Unlock()
	runner.Close()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.post, v.state, v.err, v.claimOpen = nil, StateIdle, nil, false
}
