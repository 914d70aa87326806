// Package common defines shared constants and sentinel errors used across
// the Secure Ballot client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Transport / server reachability.
	ErrUnavailable = errors.New("server unavailable")

	// Credential or token rejection.
	ErrUnauthorized = errors.New("unauthorized")

	// Flow precondition error (no network call was made).
	ErrNoOTPSession = errors.New("no OTP session found, request login again")
)
