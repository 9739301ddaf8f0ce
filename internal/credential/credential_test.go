// ABOUTME: Unit tests for credential decoding into identities
// ABOUTME: Covers claim extraction, defaults, and malformed token handling

package credential

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken builds a signed HS256 token for tests. Decode ignores the
// signature, so the secret is arbitrary.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestDecode_FullClaims(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{
		"sub":   "alice",
		"role":  "ADMIN",
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := &Identity{Username: "alice", Role: RoleAdmin, Email: "alice@example.com"}
	if !reflect.DeepEqual(id, want) {
		t.Errorf("Decode() = %+v, want %+v", id, want)
	}
}

func TestDecode_UsernameFallback(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"username": "bob"})

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if id.Username != "bob" {
		t.Errorf("Username = %q, want %q", id.Username, "bob")
	}
}

func TestDecode_RoleDefaultsToUser(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "carol"})

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if id.Role != RoleUser {
		t.Errorf("Role = %q, want %q", id.Role, RoleUser)
	}
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	// Local expiry is not enforced; the service rejects expired tokens
	// with 401 and the session layer reacts to that.
	raw := signToken(t, jwt.MapClaims{
		"sub": "dave",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if id.Username != "dave" {
		t.Errorf("Username = %q, want %q", id.Username, "dave")
	}
}

func TestDecode_Malformed(t *testing.T) {
	// A payload segment that is valid base64 but not JSON.
	badPayload := "eyJhbGciOiJIUzI1NiJ9." +
		base64.RawURLEncoding.EncodeToString([]byte("not json")) +
		".sig"

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty token", raw: ""},
		{name: "garbage token", raw: "not-a-jwt"},
		{name: "wrong segment count", raw: "only.two"},
		{name: "non-json payload", raw: badPayload},
		{
			name: "missing principal",
			raw: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "USER"})
				signed, _ := token.SignedString([]byte("test-secret"))
				return signed
			}(),
		},
		{
			name: "unparsable exp claim",
			raw: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "eve", "exp": "tomorrow"})
				signed, _ := token.SignedString([]byte("test-secret"))
				return signed
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if err == nil {
				t.Fatal("Decode() should have returned an error")
			}
			if !errors.Is(err, ErrMalformedCredential) {
				t.Errorf("Decode() error = %v, want ErrMalformedCredential", err)
			}
		})
	}
}

func TestDecode_Deterministic(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "alice", "role": "MANAGER"})

	first, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	second, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Decode() not deterministic: %+v vs %+v", first, second)
	}
}
