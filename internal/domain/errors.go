package domain

import "errors"

// Client-detected errors. These never reach the network.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNoChanges        = errors.New("no changes to update")
	ErrAlreadyRecovered = errors.New("item already recovered")
	ErrNotSignedIn      = errors.New("sign in required")
	ErrInFlight         = errors.New("operation already in progress")
	ErrNoNextPage       = errors.New("no next page")
	ErrNoPrevPage       = errors.New("no previous page")
)

// Remote API errors.
var (
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("request rejected")
	ErrUnavailable  = errors.New("service unavailable")
)

// Request lifecycle errors.
var (
	ErrSuperseded = errors.New("request superseded by a newer request")
	ErrUnmounted  = errors.New("view no longer mounted")
)

// Identity provider errors.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountExists       = errors.New("account already exists")
	ErrWeakPassword        = errors.New("password does not meet the policy")
	ErrInvalidIDToken      = errors.New("invalid identity token")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
	ErrRateLimited         = errors.New("too many attempts")
)
