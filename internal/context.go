package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/htmx"
)

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component = htmx.Component

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the wrapped http.ResponseWriter.
	Response() http.ResponseWriter

	// ResponseWriter returns the wrapper for hooks and status inspection.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request context, e.g. to attach a deadline.
	// Downstream middleware and handlers see the new context.
	SetContext(ctx context.Context)

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name, parsing the body on first access.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	// htmx requests get HX-Redirect instead of a 3xx.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	// Return it from the handler to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// IsHTMX returns true if the request originated from htmx.
	IsHTMX() bool

	// IsPartial returns true if the request expects a fragment rather than
	// a full page (htmx, not boosted).
	IsPartial() bool

	// Render writes component with the given status code. For htmx
	// requests the options set response headers and append out-of-band
	// fragments; regular requests ignore them.
	Render(code int, component Component, opts ...htmx.Option) error

	// RenderPartial renders partial for fragment requests and fullPage otherwise.
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.Option) error

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the application logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// SealedCookie returns the decrypted value of a sealed cookie.
	SealedCookie(name string) (string, error)

	// SetSealedCookie encrypts value into a cookie.
	SetSealedCookie(name, value string, maxAge int) error

	// Flash reads and clears a one-shot message.
	Flash(key string, dest any) error

	// SetFlash stores a one-shot message for the next request.
	SetFlash(key string, value any) error
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	cookieManager  *cookie.Manager
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		request:        r,
		responseWriter: NewResponseWriter(w, htmx.IsHTMX(r)),
		logger:         app.logger,
		cookieManager:  app.cookieManager,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.responseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.responseWriter.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := c.responseWriter.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) IsHTMX() bool {
	return htmx.IsHTMX(c.request)
}

func (c *requestContext) IsPartial() bool {
	return htmx.IsPartial(c.request)
}

func (c *requestContext) Render(code int, component Component, opts ...htmx.Option) error {
	var resp *htmx.Response
	if len(opts) > 0 && c.IsHTMX() {
		resp = htmx.NewResponse(opts...)
	}

	c.responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	resp.WriteHeaders(c.responseWriter)
	c.responseWriter.WriteHeader(code)

	if err := component.Render(c.request.Context(), c.responseWriter); err != nil {
		return err
	}
	return resp.RenderOOB(c.request.Context(), c.responseWriter)
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.Option) error {
	if c.IsPartial() {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	if c.cookieManager == nil {
		return "", cookie.ErrNoSecret
	}
	return c.cookieManager.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	if c.cookieManager != nil {
		c.cookieManager.Set(c.responseWriter, name, value, maxAge)
	}
}

func (c *requestContext) DeleteCookie(name string) {
	if c.cookieManager != nil {
		c.cookieManager.Delete(c.responseWriter, name)
	}
}

func (c *requestContext) SealedCookie(name string) (string, error) {
	if c.cookieManager == nil {
		return "", cookie.ErrNoSecret
	}
	return c.cookieManager.Sealed(c.request, name)
}

func (c *requestContext) SetSealedCookie(name, value string, maxAge int) error {
	if c.cookieManager == nil {
		return cookie.ErrNoSecret
	}
	return c.cookieManager.SetSealed(c.responseWriter, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	if c.cookieManager == nil {
		return cookie.ErrNoSecret
	}
	return c.cookieManager.Flash(c.responseWriter, c.request, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	if c.cookieManager == nil {
		return cookie.ErrNoSecret
	}
	return c.cookieManager.SetFlash(c.responseWriter, key, value)
}
