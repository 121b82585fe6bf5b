package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Error is a failed API call. Err is one of the domain sentinels
// (ErrUnauthorized, ErrNotFound, ErrRejected, ErrUnavailable) or a context
// error.
type Error struct {
	Op         string
	StatusCode int
	// Message is the server-provided message, shown to users verbatim.
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	b.WriteString(": ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ServerMessage returns the server message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

func errorFromStatus(op string, status int, body []byte) *Error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	e := &Error{Op: op, StatusCode: status, Message: env.Message}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Err = domain.ErrUnauthorized
	case status == http.StatusNotFound:
		e.Err = domain.ErrNotFound
	case status == http.StatusTooManyRequests:
		e.Err = fmt.Errorf("%w: %w", domain.ErrRejected, domain.ErrRateLimited)
	case status >= 500:
		e.Err = domain.ErrUnavailable
	case status >= 400:
		e.Err = domain.ErrRejected
	default:
		e.Err = domain.ErrUnavailable
	}
	return e
}
