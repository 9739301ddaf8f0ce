// ABOUTME: Pure access decision for protected console views
// ABOUTME: Waits out session resolution before ever redirecting to login

// Package guard decides, per navigation, whether a protected view may
// render. It is a pure function of a session snapshot: no I/O, no
// state, evaluated fresh on every use.
package guard

import "github.com/ironclad/vault-console/internal/session"

// LoginPath is the console's login entry point.
const LoginPath = "/login"

// Verdict enumerates the possible outcomes of a guard check.
type Verdict string

const (
	// VerdictAllow renders the protected view.
	VerdictAllow Verdict = "allow"
	// VerdictRedirect sends the visitor to the login entry point.
	VerdictRedirect Verdict = "redirect"
	// VerdictLoading holds rendering until the initial session
	// resolution finishes. Never redirect while resolving: an
	// authenticated user reloading the console must not flash through
	// the login page.
	VerdictLoading Verdict = "loading"
)

// Decision is the outcome of a guard check. Location and ReturnTo are
// set only for VerdictRedirect; ReturnTo carries the original
// destination so login can send the user back.
type Decision struct {
	Verdict  Verdict
	Location string
	ReturnTo string
}

// Decide evaluates the guard for a protected view at returnTo.
func Decide(snap session.Snapshot, returnTo string) Decision {
	if snap.Resolving {
		return Decision{Verdict: VerdictLoading}
	}
	if snap.Identity == nil {
		return Decision{Verdict: VerdictRedirect, Location: LoginPath, ReturnTo: returnTo}
	}
	return Decision{Verdict: VerdictAllow}
}
