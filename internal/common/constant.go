// Package common contains shared constants and sentinel errors used across
// Bookkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in front of the token.
const BearerScheme = "Bearer"
