package listing

import (
	"log/slog"
	"time"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/validator"
)

// Deps are the collaborators shared by every view.
type Deps struct {
	API       domain.ListingAPI
	Session   domain.SessionReader
	Notifier  Notifier
	Validator *validator.Validator
	Logger    *slog.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = Discard
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Validator == nil {
		d.Validator = validator.New(validator.WithClock(d.Now))
	}
	return d
}

// identity returns the signed-in user or domain.ErrNotSignedIn.
func (d Deps) identity() (domain.Identity, error) {
	if d.Session == nil {
		return domain.Identity{}, domain.ErrNotSignedIn
	}
	id, ok := d.Session.Current()
	if !ok {
		return domain.Identity{}, domain.ErrNotSignedIn
	}
	return id, nil
}

// LoadState is the fetch state of a view.
type LoadState int

// Load states.
const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}
