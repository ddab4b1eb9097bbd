// Package session holds a visitor's authentication state on the storefront
// server.
//
// Each visitor gets its own [Store], backed by the API client and a
// [apiclient.TokenStore] (in production a sealed cookie). The store starts
// out loading, is resolved once by [Store.Verify], and changes only through
// Login, Register, Logout, and Expire. Other per-visitor state, such as the
// cart, subscribes with [Store.OnIdentityChange].
package session
