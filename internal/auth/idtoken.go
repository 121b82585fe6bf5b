package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// IDTokenClaims is what the CLI reads from a federated ID token before
// handing it to the identity provider, which verifies the signature.
type IDTokenClaims struct {
	Subject string
	Email   string
	Issuer  string
	Expires time.Time
}

// InspectIDToken parses token without verifying its signature and rejects
// malformed or expired tokens.
func InspectIDToken(token string, now time.Time) (*IDTokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidIDToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidIDToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", domain.ErrInvalidIDToken)
	}
	if !now.Before(exp.Time) {
		return nil, fmt.Errorf("%w: token expired at %s", domain.ErrInvalidIDToken, exp.Time.Format(time.RFC3339))
	}

	iss, _ := claims.GetIssuer()
	email, _ := claims["email"].(string)
	return &IDTokenClaims{
		Subject: sub,
		Email:   email,
		Issuer:  iss,
		Expires: exp.Time,
	}, nil
}
