// Package cart keeps a visitor's server-side cart in sync with their
// session.
//
// The [Store] never computes totals or merges lines itself. Each mutation
// returns the server's full snapshot and that snapshot replaces the local
// one, guarded by request sequence numbers so that a slow, older response
// cannot overwrite a newer one.
package cart
