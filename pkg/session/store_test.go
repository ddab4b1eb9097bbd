package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/session"
)

type fakeAuth struct {
	mu          sync.Mutex
	loginCalls  int
	verifyCalls atomic.Int32
	lastCreds   apiclient.Credentials

	loginResp  *apiclient.LoginResponse
	loginErr   error
	verifyUser *apiclient.User
	verifyErr  error
	regResp    *apiclient.RegisterResponse
	regErr     error
}

func (f *fakeAuth) Login(_ context.Context, creds apiclient.Credentials) (*apiclient.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	f.lastCreds = creds
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(context.Context, apiclient.Registration) (*apiclient.RegisterResponse, error) {
	return f.regResp, f.regErr
}

func (f *fakeAuth) Verify(context.Context) (*apiclient.User, error) {
	f.verifyCalls.Add(1)
	return f.verifyUser, f.verifyErr
}

func (f *fakeAuth) logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

func storedToken(t *testing.T, ts apiclient.TokenStore) string {
	t.Helper()
	tok, _ := ts.Token(context.Background())
	return tok
}

func TestStore_Verify(t *testing.T) {
	t.Parallel()

	t.Run("starts loading", func(t *testing.T) {
		t.Parallel()

		s := session.New(&fakeAuth{}, apiclient.NewMemoryTokens(""))
		require.True(t, s.Loading())
		require.False(t, s.IsAuthenticated())
	})

	t.Run("no token resolves signed out without a call", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuth{}
		s := session.New(api, apiclient.NewMemoryTokens(""))
		require.NoError(t, s.Verify(context.Background()))

		require.Equal(t, session.State{}, s.State())
		require.Zero(t, api.verifyCalls.Load())
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuth{verifyUser: &apiclient.User{ID: "1", Name: "A"}}
		s := session.New(api, apiclient.NewMemoryTokens("t1"))
		require.NoError(t, s.Verify(context.Background()))

		st := s.State()
		require.True(t, st.IsAuthenticated)
		require.False(t, st.Loading)
		require.Equal(t, "A", st.User.Name)
	})

	t.Run("rejected token is purged", func(t *testing.T) {
		t.Parallel()

		tokens := apiclient.NewMemoryTokens("stale")
		api := &fakeAuth{verifyErr: &apiclient.Error{Status: 401}}
		s := session.New(api, tokens)

		err := s.Verify(context.Background())
		require.ErrorIs(t, err, apiclient.ErrUnauthorized)
		require.False(t, s.IsAuthenticated())
		require.False(t, s.Loading())
		require.Empty(t, storedToken(t, tokens))
	})

	t.Run("network failure also clears", func(t *testing.T) {
		t.Parallel()

		tokens := apiclient.NewMemoryTokens("t1")
		s := session.New(&fakeAuth{verifyErr: apiclient.ErrNetwork}, tokens)

		require.ErrorIs(t, s.Verify(context.Background()), apiclient.ErrNetwork)
		require.False(t, s.Loading())
		require.Empty(t, storedToken(t, tokens))
	})

	t.Run("cache skips repeated verification", func(t *testing.T) {
		t.Parallel()

		users := cache.NewMemory[apiclient.User]()
		defer users.Close()
		api := &fakeAuth{verifyUser: &apiclient.User{ID: "1"}}

		for range 3 {
			s := session.New(api, apiclient.NewMemoryTokens("t1"), session.WithCache(users, 0))
			require.NoError(t, s.Verify(context.Background()))
			require.True(t, s.IsAuthenticated())
		}
		require.Equal(t, int32(1), api.verifyCalls.Load())
	})

	t.Run("another request going away does not sign this one out", func(t *testing.T) {
		t.Parallel()

		users := cache.NewMemory[apiclient.User]()
		defer users.Close()
		api := &slowAuth{
			user:    &apiclient.User{ID: "1"},
			started: make(chan struct{}),
			release: make(chan struct{}),
		}

		tokensA := apiclient.NewMemoryTokens("t1")
		tokensB := apiclient.NewMemoryTokens("t1")
		a := session.New(api, tokensA, session.WithCache(users, 0))
		b := session.New(api, tokensB, session.WithCache(users, 0))

		ctxA, cancel := context.WithCancel(context.Background())
		errA := make(chan error, 1)
		go func() { errA <- a.Verify(ctxA) }()
		<-api.started

		errB := make(chan error, 1)
		go func() { errB <- b.Verify(context.Background()) }()

		cancel()
		require.ErrorIs(t, <-errA, context.Canceled)
		require.False(t, a.IsAuthenticated())
		require.Equal(t, "t1", storedToken(t, tokensA))

		close(api.release)
		require.NoError(t, <-errB)
		require.True(t, b.IsAuthenticated())
		require.Equal(t, "t1", storedToken(t, tokensB))
		require.Equal(t, int32(1), api.calls.Load())
	})
}

// slowAuth answers Verify once release is closed.
type slowAuth struct {
	fakeAuth
	user    *apiclient.User
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (f *slowAuth) Verify(ctx context.Context) (*apiclient.User, error) {
	if f.calls.Add(1) == 1 {
		close(f.started)
	}
	select {
	case <-f.release:
		return f.user, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestStore_Login(t *testing.T) {
	t.Parallel()

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()

		tokens := apiclient.NewMemoryTokens("")
		api := &fakeAuth{loginResp: &apiclient.LoginResponse{Token: "t1", User: apiclient.User{ID: "1", Name: "A"}}}
		s := session.New(api, tokens)

		require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

		st := s.State()
		require.True(t, st.IsAuthenticated)
		require.Equal(t, &apiclient.User{ID: "1", Name: "A"}, st.User)
		require.Equal(t, "t1", storedToken(t, tokens))
	})

	t.Run("credentials are trimmed", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuth{loginResp: &apiclient.LoginResponse{Token: "t1", User: apiclient.User{ID: "1"}}}
		s := session.New(api, apiclient.NewMemoryTokens(""))

		require.NoError(t, s.Login(context.Background(), "  a@b.com ", " secret\t"))
		require.Equal(t, apiclient.Credentials{Email: "a@b.com", Password: "secret"}, api.lastCreds)
	})

	for _, tc := range []struct{ name, email, password string }{
		{"empty email", "", "secret"},
		{"blank email", "   ", "secret"},
		{"empty password", "a@b.com", ""},
		{"blank password", "a@b.com", " \t\n"},
	} {
		t.Run("validation: "+tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAuth{}
			s := session.New(api, apiclient.NewMemoryTokens(""))

			err := s.Login(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, session.ErrValidation)
			require.Equal(t, "Email and password are required", session.Message(err, ""))
			require.Zero(t, api.logins())
		})
	}

	t.Run("rejection surfaces server message and clears state", func(t *testing.T) {
		t.Parallel()

		tokens := apiclient.NewMemoryTokens("")
		api := &fakeAuth{loginErr: &apiclient.Error{Status: 400, Message: "Invalid credentials"}}
		s := session.New(api, tokens)

		err := s.Login(context.Background(), "a@b.com", "wrong")
		require.Error(t, err)
		require.Equal(t, "Invalid credentials", session.Message(err, "Login failed"))
		require.False(t, s.IsAuthenticated())
		require.Empty(t, storedToken(t, tokens))
	})

	t.Run("generic fallback", func(t *testing.T) {
		t.Parallel()

		s := session.New(&fakeAuth{loginErr: &apiclient.Error{Status: 500}}, apiclient.NewMemoryTokens(""))
		err := s.Login(context.Background(), "a@b.com", "secret")
		require.Equal(t, "Login failed", session.Message(err, "unused"))
	})
}

func TestStore_Logout(t *testing.T) {
	t.Parallel()

	tokens := apiclient.NewMemoryTokens("")
	api := &fakeAuth{loginResp: &apiclient.LoginResponse{Token: "t1", User: apiclient.User{ID: "1"}}}
	s := session.New(api, tokens)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret"))

	s.Logout(context.Background())

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
	require.Empty(t, storedToken(t, tokens))
}

func TestStore_Register(t *testing.T) {
	t.Parallel()

	t.Run("invalid input is rejected locally", func(t *testing.T) {
		t.Parallel()

		s := session.New(&fakeAuth{}, apiclient.NewMemoryTokens(""))
		_, err := s.Register(context.Background(), apiclient.Registration{Name: "Al", Email: "nope", Password: "secret1"})
		require.ErrorIs(t, err, session.ErrValidation)
		require.Equal(t, "Please enter a valid email address", session.Message(err, ""))
	})

	t.Run("token in response signs in", func(t *testing.T) {
		t.Parallel()

		tokens := apiclient.NewMemoryTokens("")
		api := &fakeAuth{regResp: &apiclient.RegisterResponse{Token: "t2", User: &apiclient.User{ID: "2"}}}
		s := session.New(api, tokens)

		loggedIn, err := s.Register(context.Background(), apiclient.Registration{Name: "Bo", Email: "bo@b.com", Password: "secret1"})
		require.NoError(t, err)
		require.True(t, loggedIn)
		require.Equal(t, "t2", storedToken(t, tokens))
	})

	t.Run("account created without token", func(t *testing.T) {
		t.Parallel()

		s := session.New(&fakeAuth{regResp: &apiclient.RegisterResponse{Message: "ok"}}, apiclient.NewMemoryTokens(""))
		loggedIn, err := s.Register(context.Background(), apiclient.Registration{Name: "Bo", Email: "bo@b.com", Password: "secret1"})
		require.NoError(t, err)
		require.False(t, loggedIn)
		require.False(t, s.IsAuthenticated())
	})

	t.Run("server rejection", func(t *testing.T) {
		t.Parallel()

		api := &fakeAuth{regErr: &apiclient.Error{Status: 400, Message: "User already exists"}}
		s := session.New(api, apiclient.NewMemoryTokens(""))
		_, err := s.Register(context.Background(), apiclient.Registration{Name: "Bo", Email: "bo@b.com", Password: "secret1"})
		require.Equal(t, "User already exists", session.Message(err, ""))
	})
}

func TestStore_OnIdentityChange(t *testing.T) {
	t.Parallel()

	tokens := apiclient.NewMemoryTokens("")
	api := &fakeAuth{loginResp: &apiclient.LoginResponse{Token: "t1", User: apiclient.User{ID: "1"}}}
	s := session.New(api, tokens)

	var seen []apiclient.ID
	unsubscribe := s.OnIdentityChange(func(_ context.Context, u *apiclient.User) {
		if u == nil {
			seen = append(seen, "")
			return
		}
		seen = append(seen, u.ID)
	})

	ctx := context.Background()
	require.NoError(t, s.Verify(ctx)) // signed out to signed out: no change
	require.NoError(t, s.Login(ctx, "a@b.com", "secret"))
	require.NoError(t, s.Login(ctx, "a@b.com", "secret")) // same user again
	s.Expire(ctx)
	unsubscribe()
	require.NoError(t, s.Login(ctx, "a@b.com", "secret"))

	require.Equal(t, []apiclient.ID{"1", ""}, seen)
}
