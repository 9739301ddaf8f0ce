// Package gateway is the single choke point for every call the console
// makes to the vault service.
//
// # Responsibilities
//
//   - Re-read the current credential from the session store on each
//     request and attach it as a bearer Authorization header.
//   - Enforce the fixed 30 second call deadline.
//   - Normalize every failure (network error, timeout, non-2xx status)
//     into *APIError with a message extracted by a single preference
//     order: structured message field, then raw response body, then a
//     generic fallback.
//   - Emit a SessionExpired event on any 401 response, before the error
//     reaches the caller and regardless of whether the caller handles
//     it. Exactly one handler owns the reaction (the session
//     controller's idempotent logout plus the login redirect), so
//     concurrent 401s cannot produce competing teardowns.
//
// Feature code never constructs its own HTTP requests; it goes through
// the typed helpers here so the credential, deadline, and failure
// handling stay uniform.
package gateway
