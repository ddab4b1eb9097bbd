package cookie

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrNotFound    = errors.New("cookie: not found")
	ErrNoSecret    = errors.New("cookie: secret is required")
	ErrShortSecret = errors.New("cookie: secret must be at least 32 bytes")
	ErrTampered    = errors.New("cookie: value could not be opened")
)

const (
	minSecretLen = 32
	flashPrefix  = "flash_"
)

// Manager reads and writes cookies with shared attributes.
// Sealed cookies are encrypted and authenticated with a key derived from
// the secret; the cookie name is bound into the ciphertext so a value
// cannot be replayed under another name.
type Manager struct {
	aead     cipher.AEAD
	domain   string
	path     string
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

// Option configures a Manager.
type Option func(*Manager)

// New builds a Manager. The secret must be at least 32 bytes.
//
//	jar, err := cookie.New(cfg.CookieSecret, cookie.WithSecure(cfg.IsProduction()))
func New(secret string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < minSecretLen {
		return nil, ErrShortSecret
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("storefront cookie v1")), key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		aead:     aead,
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure marks cookies HTTPS-only. Enable it outside local development.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

// WithSameSite overrides the default Lax policy.
func WithSameSite(s http.SameSite) Option {
	return func(m *Manager) { m.sameSite = s }
}

// Get returns the raw value of a cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie. A zero maxAge makes it a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.build(name, value, maxAge))
}

// Delete expires a cookie in the browser.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.build(name, "", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Sealed opens an encrypted cookie written by SetSealed.
func (m *Manager) Sealed(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(data) < m.aead.NonceSize() {
		return "", ErrTampered
	}
	nonce, box := data[:m.aead.NonceSize()], data[m.aead.NonceSize():]
	plain, err := m.aead.Open(nil, nonce, box, []byte(name))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}

// SetSealed encrypts value and writes it as a cookie.
func (m *Manager) SetSealed(w http.ResponseWriter, name, value string, maxAge int) error {
	nonce := make([]byte, m.aead.NonceSize(), m.aead.NonceSize()+len(value)+m.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := m.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	http.SetCookie(w, m.build(name, base64.RawURLEncoding.EncodeToString(sealed), maxAge))
	return nil
}

// Flash reads a one-shot value into dest and deletes it.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	raw, err := m.Sealed(r, flashPrefix+key)
	if err != nil {
		return err
	}
	m.Delete(w, flashPrefix+key)
	return json.Unmarshal([]byte(raw), dest)
}

// SetFlash stores a one-shot value that survives a single redirect.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.SetSealed(w, flashPrefix+key, string(data), 0)
}

func (m *Manager) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
