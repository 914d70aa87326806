// Package session holds the client's authentication state and the flows
// that mutate it: the Store (token, user, MFA and UI feedback state) and
// the Controller (every login, verification, refresh, and logout variant
// against the authentication API).
package session
