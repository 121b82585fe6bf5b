// Package auth holds the identity provider gateway and the process-wide
// session store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	kratos "github.com/ory/kratos-client-go"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Kratos UI message ids mapped to domain errors.
const (
	msgInvalidCredentials = 4000006
	msgAccountExists      = 4000007
	msgPasswordPolicy     = 4000005
	msgPasswordSimilar    = 4000031
	msgPasswordMinLength  = 4000032
	msgPasswordLeaked     = 4000034
)

// KratosGateway implements domain.IdentityProvider with Ory Kratos native
// self-service flows.
type KratosGateway struct {
	client *kratos.APIClient
	now    func() time.Time
}

var _ domain.IdentityProvider = (*KratosGateway)(nil)

// NewKratosGateway creates a gateway for the public Kratos API at baseURL.
func NewKratosGateway(baseURL string, timeout time.Duration) *KratosGateway {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: strings.TrimRight(baseURL, "/")},
	}
	configuration.HTTPClient = &http.Client{Timeout: timeout}
	configuration.UserAgent = "whereisit-cli"

	return &KratosGateway{
		client: kratos.NewAPIClient(configuration),
		now:    time.Now,
	}
}

// SignIn runs a native login flow with the password method.
func (g *KratosGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	body := kratos.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&kratos.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: email,
		Password:   password,
	})
	return g.login(ctx, body)
}

// SignInWithProvider runs a native login flow with an OIDC ID token issued
// by provider.
func (g *KratosGateway) SignInWithProvider(ctx context.Context, provider, idToken string) (*domain.Session, error) {
	if _, err := InspectIDToken(idToken, g.now()); err != nil {
		return nil, err
	}
	body := kratos.UpdateLoginFlowWithOidcMethodAsUpdateLoginFlowBody(&kratos.UpdateLoginFlowWithOidcMethod{
		Method:   "oidc",
		Provider: provider,
		IdToken:  &idToken,
	})
	return g.login(ctx, body)
}

func (g *KratosGateway) login(ctx context.Context, body kratos.UpdateLoginFlowBody) (*domain.Session, error) {
	flow, resp, err := g.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, mapKratosError("create login flow", resp, err)
	}

	result, resp, err := g.client.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(body).
		Execute()
	if err != nil {
		return nil, mapKratosError("login", resp, err)
	}
	if result.SessionToken == nil {
		return nil, fmt.Errorf("%w: login returned no session token", domain.ErrIdentityUnavailable)
	}
	return toSession(&result.Session, *result.SessionToken)
}

// SignUp runs a native registration flow. The account is signed in on success.
func (g *KratosGateway) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	flow, resp, err := g.client.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return nil, mapKratosError("create registration flow", resp, err)
	}

	traits := map[string]interface{}{
		"email": req.Email,
		"name":  req.Name,
	}
	if req.PhotoURL != "" {
		traits["picture"] = req.PhotoURL
	}
	body := kratos.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&kratos.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: req.Password,
		Traits:   traits,
	})

	result, resp, err := g.client.FrontendAPI.UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(body).
		Execute()
	if err != nil {
		return nil, mapKratosError("registration", resp, err)
	}
	if result.SessionToken == nil || result.Session == nil {
		// Kratos only issues a session when registration signs the user in
		return g.SignIn(ctx, req.Email, req.Password)
	}
	return toSession(result.Session, *result.SessionToken)
}

// UpdateProfile runs a native settings flow with the profile method.
func (g *KratosGateway) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.Identity, error) {
	current, err := g.Whoami(ctx, token)
	if err != nil {
		return nil, err
	}

	flow, resp, err := g.client.FrontendAPI.CreateNativeSettingsFlow(ctx).XSessionToken(token).Execute()
	if err != nil {
		return nil, mapKratosError("create settings flow", resp, err)
	}

	traits := map[string]interface{}{
		"email": current.Email,
		"name":  update.DisplayName,
	}
	if update.PhotoURL != "" {
		traits["picture"] = update.PhotoURL
	}
	body := kratos.UpdateSettingsFlowWithProfileMethodAsUpdateSettingsFlowBody(&kratos.UpdateSettingsFlowWithProfileMethod{
		Method: "profile",
		Traits: traits,
	})

	result, resp, err := g.client.FrontendAPI.UpdateSettingsFlow(ctx).
		Flow(flow.Id).
		XSessionToken(token).
		UpdateSettingsFlowBody(body).
		Execute()
	if err != nil {
		return nil, mapKratosError("profile update", resp, err)
	}
	id := toIdentity(&result.Identity)
	return &id, nil
}

// SignOut revokes the session token.
func (g *KratosGateway) SignOut(ctx context.Context, token string) error {
	resp, err := g.client.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratos.PerformNativeLogoutBody{SessionToken: token}).
		Execute()
	if err != nil {
		return mapKratosError("logout", resp, err)
	}
	return nil
}

// Whoami resolves the identity behind token.
func (g *KratosGateway) Whoami(ctx context.Context, token string) (*domain.Identity, error) {
	session, resp, err := g.client.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		return nil, mapKratosError("whoami", resp, err)
	}
	if session.Active != nil && !*session.Active {
		return nil, fmt.Errorf("%w: session is not active", domain.ErrUnauthorized)
	}
	if session.Identity == nil {
		return nil, fmt.Errorf("%w: missing identity in session", domain.ErrIdentityUnavailable)
	}
	id := toIdentity(session.Identity)
	return &id, nil
}

func toSession(s *kratos.Session, token string) (*domain.Session, error) {
	if s == nil || s.Identity == nil {
		return nil, fmt.Errorf("%w: missing identity in session", domain.ErrIdentityUnavailable)
	}
	issued := time.Now()
	if s.IssuedAt != nil {
		issued = *s.IssuedAt
	}
	return &domain.Session{
		Identity: toIdentity(s.Identity),
		Token:    token,
		IssuedAt: issued,
	}, nil
}

func toIdentity(i *kratos.Identity) domain.Identity {
	id := domain.Identity{ID: i.Id}
	traits, ok := i.Traits.(map[string]interface{})
	if !ok {
		return id
	}
	id.Email, _ = traits["email"].(string)
	id.PhotoURL, _ = traits["picture"].(string)
	switch name := traits["name"].(type) {
	case string:
		id.DisplayName = name
	case map[string]interface{}:
		first, _ := name["first"].(string)
		last, _ := name["last"].(string)
		id.DisplayName = strings.TrimSpace(first + " " + last)
	}
	return id
}

// uiMessage is a Kratos flow message.
type uiMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// flowError is the subset of a failed flow body or a generic error body
// needed to classify the failure.
type flowError struct {
	UI struct {
		Messages []uiMessage `json:"messages"`
		Nodes    []struct {
			Messages []uiMessage `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
	Error struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f flowError) messages() []uiMessage {
	out := append([]uiMessage(nil), f.UI.Messages...)
	for _, n := range f.UI.Nodes {
		out = append(out, n.Messages...)
	}
	return out
}

func mapKratosError(op string, resp *http.Response, err error) error {
	if resp == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrIdentityUnavailable, op, err)
	}

	var body flowError
	var apiErr *kratos.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		_ = json.Unmarshal(apiErr.Body(), &body)
	}

	for _, m := range body.messages() {
		if m.Type != "" && m.Type != "error" {
			continue
		}
		switch m.ID {
		case msgInvalidCredentials:
			return domain.ErrInvalidCredentials
		case msgAccountExists:
			return domain.ErrAccountExists
		case msgPasswordPolicy, msgPasswordSimilar, msgPasswordMinLength, msgPasswordLeaked:
			return fmt.Errorf("%w: %s", domain.ErrWeakPassword, m.Text)
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, op)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrIdentityUnavailable, op, resp.StatusCode)
	}

	for _, m := range body.messages() {
		if m.Type == "" || m.Type == "error" {
			return fmt.Errorf("%w: %s", domain.ErrRejected, m.Text)
		}
	}
	if msg := body.Error.Reason; msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrRejected, msg)
	}
	if msg := body.Error.Message; msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrRejected, msg)
	}
	return fmt.Errorf("%w: %s returned status %d", domain.ErrRejected, op, resp.StatusCode)
}
