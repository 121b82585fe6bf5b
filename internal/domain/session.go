package domain

import "time"

// Identity is the authenticated user as reported by the identity provider.
type Identity struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Email       string `json:"email" yaml:"email"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty" yaml:"photoURL,omitempty"`
}

// Session is a signed-in identity plus the provider session token.
type Session struct {
	Identity Identity
	Token    string
	IssuedAt time.Time
}

// SessionEvent describes one session transition. A nil Current means the
// user signed out; a nil Previous means the user signed in.
type SessionEvent struct {
	Previous *Identity
	Current  *Identity
}

// SignedIn reports whether the event moved into a signed-in state.
func (e SessionEvent) SignedIn() bool {
	return e.Current != nil
}

// SignedOut reports whether the event ended a session.
func (e SessionEvent) SignedOut() bool {
	return e.Previous != nil && e.Current == nil
}

// SignUpRequest carries the registration form.
type SignUpRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
	Password string `json:"password" validate:"password"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName string `json:"name" validate:"notblank"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
}
