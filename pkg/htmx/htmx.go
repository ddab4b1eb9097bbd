package htmx

import (
	"net/http"
	"net/url"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// IsBoosted reports whether the request came from an hx-boost link or form.
// Boosted requests expect a full page, not a fragment.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderBoosted) == "true"
}

// IsPartial reports whether the response should be a fragment.
func IsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r)
}

// CurrentPath returns the path and query of the page that issued an htmx
// request, or "" for regular requests.
func CurrentPath(r *http.Request) string {
	raw := r.Header.Get(HeaderCurrentURL)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.RequestURI()
}
