// Package cookie manages the storefront's browser cookies.
//
// The visitor's bearer token and flash toasts are kept in sealed cookies:
// the value is encrypted with XChaCha20-Poly1305 under a key derived from
// the configured secret with HKDF, so the browser can neither read nor
// alter it.
//
//	jar, err := cookie.New(secret, cookie.WithSecure(true))
//	if err != nil {
//	    return err
//	}
//	if err := jar.SetSealed(w, "token", token, 7*24*3600); err != nil {
//	    return err
//	}
//	token, err := jar.Sealed(r, "token")
//
// Flash values are JSON-encoded, sealed, and deleted on first read.
package cookie
