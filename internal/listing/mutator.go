package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Mutator creates listings and opens edit sessions on existing ones.
type Mutator struct {
	deps     Deps
	creating inflight
}

// NewMutator creates a Mutator.
func NewMutator(deps Deps) *Mutator {
	return &Mutator{deps: deps.withDefaults()}
}

// Create validates d and posts it as the signed-in user. On failure the
// caller keeps d for correction.
func (m *Mutator) Create(ctx context.Context, d Draft) error {
	d = d.Normalize()
	fail := func(err error) error {
		report(ctx, m.deps.Logger, m.deps.Notifier, "create", err, MsgCreateFailed)
		return err
	}

	id, err := m.deps.identity()
	if err != nil {
		return fail(err)
	}
	if err := m.deps.Validator.Struct(d); err != nil {
		return fail(err)
	}
	release, err := m.creating.acquire("create")
	if err != nil {
		return fail(err)
	}
	defer release()

	post := domain.NewListing{
		PostType:    d.PostType,
		Thumbnail:   d.Thumbnail,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Date:        d.Date,
		Name:        id.DisplayName,
		Email:       id.Email,
		CreatedAt:   m.deps.Now(),
	}
	if err := m.deps.API.CreatePost(ctx, post); err != nil {
		report(ctx, m.deps.Logger, m.deps.Notifier, "create", err, MsgCreateFailed)
		return fmt.Errorf("create post: %w", err)
	}

	m.deps.Logger.Info("post created", "title", post.Title)
	m.deps.Notifier.Notify(Notice{Level: LevelSuccess, Message: MsgCreated})
	return nil
}

// Edit loads a listing into a new EditSession.
func (m *Mutator) Edit(ctx context.Context, postID string) (*EditSession, error) {
	logger := m.deps.Logger.With("post_id", postID)
	id, err := m.deps.identity()
	if err != nil {
		report(ctx, logger, m.deps.Notifier, "edit", err, MsgLoadPostDataFailed)
		return nil, err
	}
	post, err := m.deps.API.GetPost(ctx, postID, id.Email)
	if err != nil {
		report(ctx, logger, m.deps.Notifier, "edit", err, MsgLoadPostDataFailed)
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	return newEditSession(m.deps, post.ID, DraftFrom(*post)), nil
}

// EditSession is an update form with a diff baseline. Only changed fields
// are submitted.
type EditSession struct {
	deps   Deps
	postID string

	mu         sync.Mutex
	baseline   Draft
	form       Draft
	submitting bool
}

func newEditSession(deps Deps, postID string, original Draft) *EditSession {
	return &EditSession{deps: deps, postID: postID, baseline: original.Normalize(), form: original}
}

// PostID is the listing being edited.
func (s *EditSession) PostID() string { return s.postID }

// Form returns the current form values.
func (s *EditSession) Form() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Baseline returns the values the diff is computed against.
func (s *EditSession) Baseline() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline
}

// Update edits the form in place.
func (s *EditSession) Update(edit func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit(&s.form)
}

func (s *EditSession) SetTitle(v string) { s.Update(func(d *Draft) { d.Title = v }) }

func (s *EditSession) SetDescription(v string) { s.Update(func(d *Draft) { d.Description = v }) }

func (s *EditSession) SetLocation(v string) { s.Update(func(d *Draft) { d.Location = v }) }

func (s *EditSession) SetThumbnail(v string) { s.Update(func(d *Draft) { d.Thumbnail = v }) }

func (s *EditSession) SetCategory(v domain.Category) { s.Update(func(d *Draft) { d.Category = v }) }

func (s *EditSession) SetPostType(v domain.PostType) { s.Update(func(d *Draft) { d.PostType = v }) }

func (s *EditSession) SetDate(v time.Time) { s.Update(func(d *Draft) { d.Date = v }) }

// Changes is the minimal diff between the baseline and the form.
func (s *EditSession) Changes() domain.Changes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Diff(s.baseline, s.form.Normalize())
}

// Submitting reports whether a submit is in flight.
func (s *EditSession) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Submit sends the changed fields. With nothing changed it returns
// domain.ErrNoChanges without a request. The baseline advances to the
// submitted values before the request and reverts if it fails; the form
// keeps the user's edits either way.
func (s *EditSession) Submit(ctx context.Context) error {
	logger := s.deps.Logger.With("post_id", s.postID)
	fail := func(err error) error {
		report(ctx, logger, s.deps.Notifier, "update", err, MsgUpdateFailed)
		return err
	}

	id, err := s.deps.identity()
	if err != nil {
		return fail(err)
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return fail(domain.ErrInFlight)
	}
	form := s.form.Normalize()
	if err := s.deps.Validator.Struct(form); err != nil {
		s.mu.Unlock()
		return fail(err)
	}
	changes := Diff(s.baseline, form)
	if len(changes) == 0 {
		s.mu.Unlock()
		return fail(domain.ErrNoChanges)
	}
	previous := s.baseline
	s.baseline = form
	s.submitting = true
	s.mu.Unlock()

	err = s.deps.API.UpdatePost(ctx, s.postID, id.Email, changes)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.baseline = previous
	}
	s.mu.Unlock()

	if err != nil {
		report(ctx, logger, s.deps.Notifier, "update", err, MsgUpdateFailed)
		return fmt.Errorf("update post %s: %w", s.postID, err)
	}
	logger.Info("post updated", "fields", changes.Fields())
	s.deps.Notifier.Notify(Notice{Level: LevelSuccess, Message: MsgUpdated})
	return nil
}
