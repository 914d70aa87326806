// Package common contains shared constants and sentinel errors used across
// Secure Ballot client components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer access
// token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation ID so client calls
// can be matched to server-side logs.
const RequestIDHeaderName = "X-Request-ID"
