package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// AuthAPI is the part of the API client the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, reg apiclient.Registration) (*apiclient.RegisterResponse, error)
	Verify(ctx context.Context) (*apiclient.User, error)
}

// State is a read-only view of the session.
type State struct {
	User            *apiclient.User
	IsAuthenticated bool
	Loading         bool
}

// Observer is notified when the signed-in identity changes, including
// sign-out (user is nil).
type Observer func(ctx context.Context, user *apiclient.User)

// Store holds one visitor's authentication state.
//
// A new Store is loading until Verify resolves it. IsAuthenticated is true
// exactly when a user is present; every failure clears the user and the
// persisted token together.
type Store struct {
	api      AuthAPI
	tokens   apiclient.TokenStore
	users    cache.Cache[apiclient.User]
	cacheTTL time.Duration
	validate *validator.Validate
	log      *slog.Logger

	mu        sync.RWMutex
	user      *apiclient.User
	loading   bool
	cacheKey  string
	observers map[int]Observer
	nextObs   int
}

// New creates a Store in the loading state.
func New(api AuthAPI, tokens apiclient.TokenStore, opts ...Option) *Store {
	s := &Store{
		api:       api,
		tokens:    tokens,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       logger.NewNope(),
		loading:   true,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify resolves the persisted token into a user.
//
// Without a token the session resolves as signed out. Any failure, network
// or rejection, clears the session and removes the token. If ctx ends first
// the request is treated as signed out but the token is kept, since it was
// never checked. Loading is false once Verify returns.
func (s *Store) Verify(ctx context.Context) error {
	token, ok := s.tokens.Token(ctx)
	if !ok {
		s.resolve(ctx, nil, "")
		return nil
	}

	key := cacheKey(token)
	user, err := s.lookup(ctx, key)
	if err != nil && ctx.Err() != nil {
		s.log.DebugContext(ctx, "session verification abandoned", slog.String("error", err.Error()))
		s.resolve(ctx, nil, "")
		return err
	}
	if err != nil {
		s.log.InfoContext(ctx, "session verification failed", slog.String("error", err.Error()))
		s.reset(ctx)
		return err
	}
	s.resolve(ctx, &user, key)
	return nil
}

func (s *Store) lookup(ctx context.Context, key string) (apiclient.User, error) {
	load := func(ctx context.Context) (apiclient.User, time.Duration, error) {
		u, err := s.api.Verify(ctx)
		if err != nil {
			return apiclient.User{}, 0, err
		}
		return *u, s.cacheTTL, nil
	}
	if s.users == nil {
		u, _, err := load(ctx)
		return u, err
	}
	return cache.GetOrSet(ctx, s.users, key, load)
}

// Login signs the visitor in.
//
// Email and password are trimmed; if either is empty ErrValidation is
// returned and no request is made. On rejection the session is cleared and
// an *Error carrying the server message (or "Login failed") is returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds := apiclient.Credentials{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if creds.Email == "" || creds.Password == "" {
		return ErrValidation
	}

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.reset(ctx)
		return &Error{Message: loginMessage(err), Err: err}
	}
	return s.establish(ctx, resp.Token, resp.User)
}

// Register creates an account. When the API answers with a token the
// visitor is signed in straight away and loggedIn is true.
func (s *Store) Register(ctx context.Context, reg apiclient.Registration) (loggedIn bool, err error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := s.validate.Struct(reg); err != nil {
		return false, &Error{Message: registrationMessage(err), Err: errors.Join(ErrValidation, err)}
	}

	resp, err := s.api.Register(ctx, reg)
	if err != nil {
		return false, &Error{Message: apiclient.Message(err, "Registration failed"), Err: err}
	}
	if resp.Token == "" || resp.User == nil {
		return false, nil
	}
	if err := s.establish(ctx, resp.Token, *resp.User); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) establish(ctx context.Context, token string, user apiclient.User) error {
	if err := s.tokens.SetToken(ctx, token); err != nil {
		s.reset(ctx)
		return &Error{Message: "Login failed", Err: err}
	}
	key := cacheKey(token)
	if s.users != nil {
		_ = s.users.Set(ctx, key, user, s.cacheTTL)
	}
	s.resolve(ctx, &user, key)
	return nil
}

// Logout clears the session and removes the persisted token.
func (s *Store) Logout(ctx context.Context) {
	s.reset(ctx)
}

// Expire is called when any request was rejected as unauthorized.
// It behaves like Logout; the caller decides where to navigate.
func (s *Store) Expire(ctx context.Context) {
	s.log.InfoContext(ctx, "session expired")
	s.reset(ctx)
}

func (s *Store) reset(ctx context.Context) {
	if err := s.tokens.DeleteToken(ctx); err != nil {
		s.log.ErrorContext(ctx, "failed to delete token", slog.String("error", err.Error()))
	}
	s.mu.RLock()
	key := s.cacheKey
	s.mu.RUnlock()
	if key != "" && s.users != nil {
		_ = s.users.Delete(ctx, key)
	}
	s.resolve(ctx, nil, "")
}

// resolve sets the user, ends loading, and notifies observers outside the lock
// when the identity changed.
func (s *Store) resolve(ctx context.Context, user *apiclient.User, key string) {
	s.mu.Lock()
	prev := s.user
	s.user = user
	s.cacheKey = key
	s.loading = false
	var notify []Observer
	if identity(prev) != identity(user) {
		notify = make([]Observer, 0, len(s.observers))
		for _, fn := range s.observers {
			notify = append(notify, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(ctx, user)
	}
}

// OnIdentityChange registers fn and returns a function that removes it.
func (s *Store) OnIdentityChange(fn func(ctx context.Context, user *apiclient.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// State returns a consistent snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:            clone(s.user),
		IsAuthenticated: s.user != nil,
		Loading:         s.loading,
	}
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *apiclient.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.user)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading reports whether the initial verification is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func identity(u *apiclient.User) apiclient.ID {
	if u == nil {
		return ""
	}
	return u.ID
}

func clone(u *apiclient.User) *apiclient.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrNetwork):
		return "Network error. Please check your connection."
	case errors.Is(err, apiclient.ErrInvalidResponse):
		return "Invalid response from server"
	}
	return apiclient.Message(err, "Login failed")
}

func registrationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Registration failed"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return "Name must be between 2 and 100 characters"
	case "Email":
		return "Please enter a valid email address"
	case "Password":
		return "Password must be at least 6 characters"
	}
	return "Registration failed"
}
