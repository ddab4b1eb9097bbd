// Package htmx holds the small set of htmx helpers the storefront uses:
// request detection, fragment response headers, out-of-band fragments, and
// redirects that work for both full page loads and htmx requests.
package htmx
