package listing

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/whereisit-project/whereisit/internal/api"
	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/validator"
)

// User-facing messages.
const (
	MsgLoadPostsFailed     = "Could not load posts"
	MsgLoadMyPostsFailed   = "Could not load your posts"
	MsgLoadPostFailed      = "Could not load post details"
	MsgLoadPostDataFailed  = "Could not load post data"
	MsgLoadRecoveredFailed = "Could not load recovered items"
	MsgCreateFailed        = "Failed to create post"
	MsgUpdateFailed        = "Failed to update post"
	MsgDeleteFailed        = "Failed to delete post"
	MsgClaimFailed         = "Failed to record item recovery"

	MsgCreated     = "Post created successfully!"
	MsgUpdated     = "Post updated successfully"
	MsgDeleted     = "Post deleted successfully"
	MsgClaimed     = "Item recovery recorded successfully!"
	MsgNoChanges   = "No changes to update"
	MsgSessionGone = "Your session has expired. Please sign in again."
	MsgSignInFirst = "Please sign in to continue."
	MsgRecovered   = "This item has already been recovered"
	MsgInFlight    = "Please wait for the current request to finish"
	MsgNotFound    = "Post not found"
)

// Level is the severity of a notice.
type Level int

// Notice levels.
const (
	LevelSuccess Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	default:
		return "error"
	}
}

// Notice is a transient message for the user.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// Recorder keeps notices in order.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the newest notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Drain returns and clears the recorded notices.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// UserMessage translates err for display. Server business messages are
// shown verbatim; unexpected failures collapse into fallback.
func UserMessage(err error, fallback string) string {
	var verr *validator.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.First()
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrNoChanges):
		return MsgNoChanges
	case errors.Is(err, domain.ErrAlreadyRecovered):
		return MsgRecovered
	case errors.Is(err, domain.ErrNotSignedIn):
		return MsgSignInFirst
	case errors.Is(err, domain.ErrInFlight):
		return MsgInFlight
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgSessionGone
	case errors.Is(err, domain.ErrRejected), errors.Is(err, domain.ErrNotFound):
		if msg, ok := api.ServerMessage(err); ok {
			return msg
		}
		if errors.Is(err, domain.ErrNotFound) {
			return MsgNotFound
		}
		return fallback
	default:
		return fallback
	}
}

// report logs err at the operation boundary and notifies the user.
func report(ctx context.Context, logger *slog.Logger, n Notifier, op string, err error, fallback string) {
	if errors.Is(err, domain.ErrSuperseded) || errors.Is(err, domain.ErrUnmounted) || errors.Is(err, context.Canceled) {
		return
	}
	level := slog.LevelWarn
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNoChanges) {
		level = slog.LevelDebug
	}
	logger.Log(ctx, level, "operation failed", "op", op, "error", err)

	notice := Notice{Level: LevelError, Message: UserMessage(err, fallback)}
	if errors.Is(err, domain.ErrNoChanges) {
		notice.Level = LevelInfo
	}
	n.Notify(notice)
}
