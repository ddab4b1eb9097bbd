package cart

import "errors"

var (
	// ErrNotAuthenticated is returned without contacting the API when no
	// visitor is signed in. Callers send the visitor to the login page.
	ErrNotAuthenticated = errors.New("cart: not authenticated")

	// ErrInvalidQuantity is returned for quantities below one, including a
	// decrement that would take a line to zero.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
)
