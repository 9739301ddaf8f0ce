// ABOUTME: Session controller state machine for login, registration, and logout
// ABOUTME: Sole writer of session state; converts auth failures into uniform results

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ironclad/vault-console/internal/credential"
)

// Phase is the controller's position in its lifecycle.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseResolving     Phase = "resolving"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// Snapshot is a value copy of session state handed to readers. Identity
// is nil exactly when no valid credential is held.
type Snapshot struct {
	Identity   *credential.Identity
	Credential string
	Phase      Phase
	Resolving  bool
}

// Result is the uniform outcome of a login or registration attempt.
// Failures carry a human-readable message; raw errors never escape.
type Result struct {
	Success bool
	Message string
}

// LoginReply carries the fields of a successful authentication response
// that the controller consumes.
type LoginReply struct {
	Token string
	Role  string
}

// Registration is the payload for creating a new vault account.
type Registration struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Authenticator is the slice of the vault API the controller needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (LoginReply, error)
	Register(ctx context.Context, reg Registration) error
}

// Controller owns the session lifecycle. All mutation goes through it;
// everything else observes via Snapshot.
type Controller struct {
	mu       sync.Mutex
	store    *Store
	auth     Authenticator
	logger   *slog.Logger
	phase    Phase
	identity *credential.Identity
	cred     string
}

// NewController creates a controller over the given credential store and
// authenticator. The session starts uninitialized; call Resume once at
// process start.
func NewController(store *Store, auth Authenticator) *Controller {
	return &Controller{
		store:  store,
		auth:   auth,
		logger: slog.Default().With("component", "session"),
		phase:  PhaseUninitialized,
	}
}

// Resume resolves the initial session state from the durable store:
// a stored credential that decodes becomes an authenticated session, a
// stored credential that does not decode is cleared, and an empty slot
// resolves to anonymous without any network call. Resume is a no-op
// after the first call; the resolving phase never recurs.
func (c *Controller) Resume() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseUninitialized {
		return c.snapshotLocked()
	}
	c.phase = PhaseResolving

	raw, err := c.store.Get()
	if err != nil {
		c.logger.Warn("reading stored credential failed, starting anonymous", "error", err)
		c.becomeAnonymousLocked()
		return c.snapshotLocked()
	}
	if raw == "" {
		c.becomeAnonymousLocked()
		return c.snapshotLocked()
	}

	id, err := credential.Decode(raw)
	if err != nil {
		c.logger.Warn("stored credential is invalid, clearing session", "error", err)
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Error("clearing invalid credential failed", "error", clearErr)
		}
		c.becomeAnonymousLocked()
		return c.snapshotLocked()
	}

	c.identity = id
	c.cred = raw
	c.phase = PhaseAuthenticated
	c.logger.Info("session resumed", "username", id.Username, "role", string(id.Role))
	return c.snapshotLocked()
}

// Login authenticates against the vault service and establishes a
// session on success. The role in the response body, when present,
// overrides the role carried in the token; clients depend on that
// precedence. Network and server failures come back as a failed Result,
// never as an error.
func (c *Controller) Login(ctx context.Context, username, password string) Result {
	reply, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return Result{Success: false, Message: failureMessage(err, "Login failed")}
	}
	if reply.Token == "" {
		return Result{Success: false, Message: "Invalid response from server"}
	}

	id, err := credential.Decode(reply.Token)
	if err != nil {
		c.logger.Warn("login returned an undecodable token", "error", err)
		return Result{Success: false, Message: "Invalid response from server"}
	}
	if reply.Role != "" {
		id.Role = credential.Role(reply.Role)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(reply.Token); err != nil {
		c.logger.Error("persisting credential failed", "error", err)
		return Result{Success: false, Message: "Failed to save session"}
	}

	c.identity = id
	c.cred = reply.Token
	c.phase = PhaseAuthenticated
	c.logger.Info("login succeeded", "username", id.Username, "role", string(id.Role))
	return Result{Success: true}
}

// Register creates a new account. It does not authenticate; the caller
// logs in afterwards.
func (c *Controller) Register(ctx context.Context, reg Registration) Result {
	if reg.Role == "" {
		reg.Role = string(credential.RoleUser)
	}
	if err := c.auth.Register(ctx, reg); err != nil {
		return Result{Success: false, Message: failureMessage(err, "Registration failed")}
	}
	return Result{Success: true}
}

// Logout clears the credential slot and identity unconditionally.
// Idempotent: logging out of an anonymous session is a no-op.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		c.logger.Error("clearing credential failed", "error", err)
	}
	if c.phase == PhaseAuthenticated {
		c.logger.Info("session ended")
	}
	c.becomeAnonymousLocked()
}

// Snapshot returns a value copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// becomeAnonymousLocked drops identity and credential. Must be called
// with mu held.
func (c *Controller) becomeAnonymousLocked() {
	c.identity = nil
	c.cred = ""
	c.phase = PhaseAnonymous
}

// snapshotLocked builds a Snapshot copy. Must be called with mu held.
func (c *Controller) snapshotLocked() Snapshot {
	var id *credential.Identity
	if c.identity != nil {
		copied := *c.identity
		id = &copied
	}
	return Snapshot{
		Identity:   id,
		Credential: c.cred,
		Phase:      c.phase,
		Resolving:  c.phase == PhaseUninitialized || c.phase == PhaseResolving,
	}
}

// failureMessage extracts a user-facing message from an auth error,
// falling back to the given generic string. Normalized gateway errors
// already carry the preferred message in Error().
func failureMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
