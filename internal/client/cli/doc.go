// Package cli implements the interactive Secure Ballot client: a prompt
// loop dispatching to the session controller, input helpers, and the CLI's
// route tracker.
package cli
