// ABOUTME: Tests for the pure access guard decision function
// ABOUTME: Verifies the loading/redirect/allow rules over session snapshots

package guard

import (
	"testing"

	"github.com/ironclad/vault-console/internal/credential"
	"github.com/ironclad/vault-console/internal/session"
)

func TestDecide(t *testing.T) {
	alice := &credential.Identity{Username: "alice", Role: credential.RoleUser}

	tests := []struct {
		name string
		snap session.Snapshot
		want Verdict
	}{
		{
			name: "uninitialized session shows loading",
			snap: session.Snapshot{Phase: session.PhaseUninitialized, Resolving: true},
			want: VerdictLoading,
		},
		{
			name: "resolving session shows loading",
			snap: session.Snapshot{Phase: session.PhaseResolving, Resolving: true},
			want: VerdictLoading,
		},
		{
			name: "resolving with stale identity still shows loading",
			snap: session.Snapshot{Phase: session.PhaseResolving, Resolving: true, Identity: alice},
			want: VerdictLoading,
		},
		{
			name: "anonymous redirects",
			snap: session.Snapshot{Phase: session.PhaseAnonymous},
			want: VerdictRedirect,
		},
		{
			name: "authenticated allows",
			snap: session.Snapshot{Phase: session.PhaseAuthenticated, Identity: alice},
			want: VerdictAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, "/files")
			if got.Verdict != tt.want {
				t.Errorf("Decide() = %q, want %q", got.Verdict, tt.want)
			}
			if tt.snap.Resolving && got.Verdict == VerdictRedirect {
				t.Error("guard must never redirect while the session is resolving")
			}
		})
	}
}

func TestDecide_RedirectCarriesReturnTo(t *testing.T) {
	got := Decide(session.Snapshot{Phase: session.PhaseAnonymous}, "/audit-logs")

	if got.Verdict != VerdictRedirect {
		t.Fatalf("Decide() = %q, want %q", got.Verdict, VerdictRedirect)
	}
	if got.Location != LoginPath {
		t.Errorf("Location = %q, want %q", got.Location, LoginPath)
	}
	if got.ReturnTo != "/audit-logs" {
		t.Errorf("ReturnTo = %q, want %q", got.ReturnTo, "/audit-logs")
	}
}
