package htmx

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Component is anything that renders HTML, such as a templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Response collects the htmx headers and out-of-band fragments that
// accompany a rendered fragment.
type Response struct {
	OOB      []Component
	Retarget string
	Reswap   Swap
	PushURL  string
	Triggers []string
	Refresh  bool
}

// Option adjusts a Response.
type Option func(*Response)

// NewResponse applies opts to an empty Response.
func NewResponse(opts ...Option) *Response {
	resp := &Response{}
	for _, opt := range opts {
		opt(resp)
	}
	return resp
}

// WriteHeaders sets the htmx response headers. It must run before the
// status line is written.
func (resp *Response) WriteHeaders(w http.ResponseWriter) {
	if resp == nil {
		return
	}
	h := w.Header()
	if resp.Retarget != "" {
		h.Set(HeaderRetarget, resp.Retarget)
	}
	if resp.Reswap != "" {
		h.Set(HeaderReswap, string(resp.Reswap))
	}
	if resp.PushURL != "" {
		h.Set(HeaderPushURL, resp.PushURL)
	}
	if len(resp.Triggers) > 0 {
		h.Set(HeaderTrigger, strings.Join(resp.Triggers, ", "))
	}
	if resp.Refresh {
		h.Set(HeaderRefresh, "true")
	}
}

// RenderOOB renders the out-of-band fragments after the main one.
func (resp *Response) RenderOOB(ctx context.Context, w io.Writer) error {
	if resp == nil {
		return nil
	}
	for _, c := range resp.OOB {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// WithOOB appends fragments carrying hx-swap-oob attributes, e.g. the cart
// badge or a toast.
func WithOOB(components ...Component) Option {
	return func(r *Response) { r.OOB = append(r.OOB, components...) }
}

func WithRetarget(selector string) Option {
	return func(r *Response) { r.Retarget = selector }
}

func WithReswap(s Swap) Option {
	return func(r *Response) { r.Reswap = s }
}

// WithPushURL updates the browser address bar after the swap.
func WithPushURL(url string) Option {
	return func(r *Response) { r.PushURL = url }
}

// WithTrigger fires client-side events after the response is received.
func WithTrigger(events ...string) Option {
	return func(r *Response) { r.Triggers = append(r.Triggers, events...) }
}

func WithRefresh() Option {
	return func(r *Response) { r.Refresh = true }
}
