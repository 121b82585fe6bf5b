package domain

import "context"

//go:generate mockgen -source=port.go -destination=../mocks/domain_mocks.go -package=mocks

// ListingAPI is the remote listing service.
type ListingAPI interface {
	ListPosts(ctx context.Context, req PageRequest) (*PostPage, error)
	GetPost(ctx context.Context, id, email string) (*Listing, error)
	CreatePost(ctx context.Context, post NewListing) error
	UpdatePost(ctx context.Context, id, email string, changes Changes) error
	DeletePost(ctx context.Context, id, email string) error
	MyPosts(ctx context.Context, email string) ([]Listing, error)
	RecoveredItems(ctx context.Context, email string) ([]RecoveryRecord, error)
	RecoverItem(ctx context.Context, email string, record RecoveryRecord) error
}

// BackendSession opens and closes the backend's cookie session.
type BackendSession interface {
	Login(ctx context.Context, email string) error
	Logout(ctx context.Context) error
}

// IdentityProvider is the third-party authentication service.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignInWithProvider(ctx context.Context, provider, idToken string) (*Session, error)
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Identity, error)
	SignOut(ctx context.Context, token string) error
	Whoami(ctx context.Context, token string) (*Identity, error)
}

// SessionReader is the read-only view of the current session.
type SessionReader interface {
	Current() (Identity, bool)
	Loading() bool
}
