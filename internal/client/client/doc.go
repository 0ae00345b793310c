// Package client is the CLI's transport to the Bookkeeper HTTP API.
//
// HTTPClient implements Client over net/http with JSON bodies. Failures to
// reach the server are reported as ErrUnavailable; non-2xx responses become
// *APIError, which matches ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrConflict and ErrInvalidInput with errors.Is.
package client
