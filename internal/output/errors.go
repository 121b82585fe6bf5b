package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/whereisit-project/whereisit/internal/api"
	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/thumbnail"
	"github.com/whereisit-project/whereisit/internal/validator"
)

// Exit code constants
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitUsageError   = 2
	ExitUnavailable  = 3
	ExitConfigError  = 4
	ExitAuthRequired = 5
	ExitValidation   = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
	// Shown marks errors already printed as a notice. Only the cause and
	// suggestion are printed again.
	Shown bool
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// FromError classifies err into a CLIError. Errors that already are
// CLIErrors pass through.
func FromError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		e := &CLIError{Summary: verr.First(), ExitCode: ExitValidation, Err: err}
		if len(verr.Fields) > 1 {
			e.Detail = verr.Error()
		}
		return e
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrWeakPassword):
		return &CLIError{Summary: err.Error(), ExitCode: ExitValidation, Err: err}
	case errors.Is(err, thumbnail.ErrNotImage), errors.Is(err, thumbnail.ErrTooLarge):
		return &CLIError{
			Summary:    "Thumbnail URL must point to an image",
			Detail:     err.Error(),
			Suggestion: "Use a direct link to a PNG, JPEG, GIF or WebP image",
			ExitCode:   ExitValidation,
			Err:        err,
		}
	case errors.Is(err, domain.ErrNoChanges):
		return &CLIError{Summary: "No changes to update", ExitCode: ExitValidation, Err: err}
	case errors.Is(err, domain.ErrAlreadyRecovered):
		return &CLIError{Summary: "This item has already been recovered", ExitCode: ExitGeneral, Err: err}
	case errors.Is(err, domain.ErrNotSignedIn):
		return &CLIError{
			Summary:    "Sign in required",
			Suggestion: "Pass --email and --password, or set WHEREISIT_EMAIL and WHEREISIT_PASSWORD",
			ExitCode:   ExitAuthRequired,
			Err:        err,
		}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &CLIError{Summary: "Invalid email or password", ExitCode: ExitAuthRequired, Err: err}
	case errors.Is(err, domain.ErrAccountExists):
		return &CLIError{
			Summary:    "An account with this email already exists",
			Suggestion: "Sign in with --email and --password instead",
			ExitCode:   ExitValidation,
			Err:        err,
		}
	case errors.Is(err, domain.ErrInvalidIDToken):
		return &CLIError{Summary: "The identity token is invalid or expired", ExitCode: ExitAuthRequired, Err: err}
	case errors.Is(err, domain.ErrRateLimited):
		return &CLIError{
			Summary:    "Too many attempts",
			Suggestion: "Wait a moment and try again",
			ExitCode:   ExitGeneral,
			Err:        err,
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return &CLIError{
			Summary:    "Your session has expired. Please sign in again.",
			Suggestion: "Run the command again with --email and --password",
			ExitCode:   ExitAuthRequired,
			Err:        err,
		}
	case errors.Is(err, domain.ErrNotFound):
		summary := "Post not found"
		if msg, ok := api.ServerMessage(err); ok {
			summary = msg
		}
		return &CLIError{Summary: summary, ExitCode: ExitGeneral, Err: err}
	case errors.Is(err, domain.ErrRejected):
		summary := "The request was rejected"
		if msg, ok := api.ServerMessage(err); ok {
			summary = msg
		}
		return &CLIError{Summary: summary, ExitCode: ExitGeneral, Err: err}
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrIdentityUnavailable):
		return &CLIError{
			Summary:    "Service unavailable",
			Detail:     err.Error(),
			Suggestion: "Check api.base_url and auth.kratos_url, then try again",
			ExitCode:   ExitUnavailable,
			Err:        err,
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &CLIError{Summary: "Interrupted", Detail: err.Error(), ExitCode: ExitGeneral, Err: err}
	default:
		return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
	}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if e.Shown {
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
		return
	}
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
