// Package session owns the console's authentication state: the durable
// credential slot and the controller that resolves, creates, and tears
// down sessions.
//
// # Credential Slot
//
// Store persists at most one raw credential string in a file under the
// user's state directory. Writes are atomic single-slot replacements
// (last writer wins); there is no cross-process change notification, so
// a credential cleared by another process is only noticed on the next
// read. That mirrors the single-slot durable storage contract of the
// original console and is a documented limitation, not a bug.
//
// # Controller
//
// Controller is the only writer of session state. It moves through
// Uninitialized -> Resolving -> {Authenticated, Anonymous}, with
// Authenticated -> Anonymous on logout or a server-signaled rejection.
// All readers receive value snapshots, never shared references, so the
// gateway and guard cannot corrupt controller state.
package session
