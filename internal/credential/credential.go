// ABOUTME: Bearer credential decoding into a structured Identity
// ABOUTME: Parses JWT claims without signature verification (server-side validated)

package credential

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedCredential indicates a stored or received credential that
// cannot be decoded. Callers treat it as "no credential" and clear the slot.
var ErrMalformedCredential = errors.New("malformed credential")

// Identity is the read-only projection of a decoded credential.
type Identity struct {
	Username string
	Role     Role
	Email    string
}

// Decode parses the raw bearer token and extracts the identity claims.
// The signature is not verified; the vault service is the authority on
// token validity and signals rejection with 401 at request time.
func Decode(raw string) (*Identity, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedCredential)
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrMalformedCredential)
	}

	// Principal name: "sub" preferred, "username" as fallback.
	username := stringClaim(claims, "sub")
	if username == "" {
		username = stringClaim(claims, "username")
	}
	if username == "" {
		return nil, fmt.Errorf("%w: missing principal claim", ErrMalformedCredential)
	}

	// The exp claim is not enforced locally, but a malformed one means
	// the token cannot be trusted to round-trip through the service.
	if rawExp, present := claims["exp"]; present {
		switch rawExp.(type) {
		case float64, int64, int:
		default:
			return nil, fmt.Errorf("%w: unparsable exp claim", ErrMalformedCredential)
		}
	}

	role := RoleUser
	if r := stringClaim(claims, "role"); r != "" {
		role = Role(r)
	}

	return &Identity{
		Username: username,
		Role:     role,
		Email:    stringClaim(claims, "email"),
	}, nil
}

// stringClaim returns the named claim as a string, or "" if absent or
// not a string.
func stringClaim(claims jwt.MapClaims, name string) string {
	v, ok := claims[name].(string)
	if !ok {
		return ""
	}
	return v
}
