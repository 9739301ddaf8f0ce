// Package credential decodes vault bearer tokens into identities and
// provides the display-only role predicates built on top of them.
//
// # Decoding
//
// The console never holds signing key material: tokens are minted and
// verified by the vault service. Decode therefore reads the JWT payload
// without checking the signature, extracting the principal name, role,
// and optional email. A token that cannot be parsed at all fails with
// ErrMalformedCredential.
//
// # Expiry
//
// Decode does not enforce the exp claim locally. The service rejects
// expired tokens with 401 and the session layer reacts to that signal;
// a locally-expired-but-accepted token would otherwise diverge from the
// server's view. An exp claim that is present but not a number still
// fails decoding as malformed.
//
// # Role Predicates
//
// Identity.IsAdmin and Identity.IsManager are visibility gates for the
// console UI only. They are safe on a nil Identity and must never be
// treated as a security boundary: the vault service authorizes every
// privileged operation on its own.
package credential
