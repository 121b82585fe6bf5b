package apitest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whereisit-project/whereisit/internal/domain"
)

type account struct {
	identity domain.Identity
	password string
}

// Identity is an in-memory identity provider.
type Identity struct {
	mu       sync.Mutex
	accounts map[string]*account
	// federated maps provider ID tokens to emails
	federated map[string]string
	tokens    map[string]string
	signOuts  int
	failNext  error
}

var _ domain.IdentityProvider = (*Identity)(nil)

// NewIdentity returns an empty identity provider.
func NewIdentity() *Identity {
	return &Identity{
		accounts:  make(map[string]*account),
		federated: make(map[string]string),
		tokens:    make(map[string]string),
	}
}

// AddUser registers an account with a password.
func (p *Identity) AddUser(email, password, name string) domain.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := domain.Identity{ID: uuid.NewString(), Email: email, DisplayName: name}
	p.accounts[strings.ToLower(email)] = &account{identity: id, password: password}
	return id
}

// AddFederated makes idToken from provider resolve to an account for email.
func (p *Identity) AddFederated(provider, idToken, email, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := p.accounts[key]; !ok {
		p.accounts[key] = &account{identity: domain.Identity{ID: uuid.NewString(), Email: email, DisplayName: name}}
	}
	p.federated[provider+"|"+idToken] = key
}

// FailNext makes the next provider call return err.
func (p *Identity) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

// SignOuts returns how many sessions were revoked.
func (p *Identity) SignOuts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signOuts
}

// ActiveSessions returns how many tokens are live.
func (p *Identity) ActiveSessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

// takeFailure returns and clears the injected failure. Callers hold p.mu.
func (p *Identity) takeFailure() error {
	err := p.failNext
	p.failNext = nil
	return err
}

// issue creates a session for key. Callers hold p.mu.
func (p *Identity) issue(key string) *domain.Session {
	token := uuid.NewString()
	p.tokens[token] = key
	return &domain.Session{Identity: p.accounts[key].identity, Token: token, IssuedAt: time.Now()}
}

func (p *Identity) SignIn(_ context.Context, email, password string) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return nil, err
	}
	key := strings.ToLower(email)
	acc, ok := p.accounts[key]
	if !ok || acc.password == "" || acc.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	return p.issue(key), nil
}

func (p *Identity) SignInWithProvider(_ context.Context, provider, idToken string) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return nil, err
	}
	key, ok := p.federated[provider+"|"+idToken]
	if !ok {
		return nil, domain.ErrInvalidIDToken
	}
	return p.issue(key), nil
}

func (p *Identity) SignUp(_ context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return nil, err
	}
	key := strings.ToLower(req.Email)
	if _, ok := p.accounts[key]; ok {
		return nil, domain.ErrAccountExists
	}
	p.accounts[key] = &account{
		identity: domain.Identity{ID: uuid.NewString(), Email: req.Email, DisplayName: req.Name, PhotoURL: req.PhotoURL},
		password: req.Password,
	}
	return p.issue(key), nil
}

func (p *Identity) UpdateProfile(_ context.Context, token string, update domain.ProfileUpdate) (*domain.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return nil, err
	}
	key, ok := p.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	acc := p.accounts[key]
	acc.identity.DisplayName = update.DisplayName
	acc.identity.PhotoURL = update.PhotoURL
	id := acc.identity
	return &id, nil
}

func (p *Identity) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return err
	}
	if _, ok := p.tokens[token]; ok {
		delete(p.tokens, token)
		p.signOuts++
	}
	return nil
}

func (p *Identity) Whoami(_ context.Context, token string) (*domain.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return nil, err
	}
	key, ok := p.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	id := p.accounts[key].identity
	return &id, nil
}
