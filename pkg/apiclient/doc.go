// Package apiclient is the typed HTTP client for the storefront API.
//
// One [Client] is created at startup and shared. Each visitor gets a
// derived client through [Client.WithTokens], which attaches the visitor's
// bearer token to every request and purges it when the API answers 401.
//
//	api, err := apiclient.New("http://localhost:5000/api")
//	if err != nil {
//	    return err
//	}
//	visitorAPI := api.WithTokens(tokens)
//	cart, err := visitorAPI.AddToCart(ctx, "p1", 1)
//
// # Errors
//
// Failures are reported as error kinds instead of side effects:
//
//   - [ErrNetwork]: the API could not be reached
//   - [ErrUnauthorized]: the token was rejected and has been purged
//   - [ErrNotFound]: the resource does not exist
//   - [ErrInvalidResponse]: the body did not match the expected schema
//   - [*Error]: any other rejection, carrying the server message
//
// Rejections are *Error values that also match the sentinels above via
// errors.Is, so a 401 on login still exposes the server message through
// [Message].
//
// # Schemas
//
// Every response is decoded into an explicit struct and validated with
// go-playground/validator before it is returned. Identifiers are accepted as
// "id" or "_id", and as JSON strings or numbers.
package apiclient
