// ABOUTME: Vault service client over the gateway choke point
// ABOUTME: Implements the /api/v1.0 users and vault endpoints

package vault

import (
	"context"
	"log/slog"

	"github.com/ironclad/vault-console/internal/gateway"
	"github.com/ironclad/vault-console/internal/session"
)

const apiPrefix = "/api/v1.0"

// Client exposes the vault service operations. All traffic goes through
// the gateway, which owns credentials, the deadline, and failure
// normalization.
type Client struct {
	gw     *gateway.Client
	logger *slog.Logger
}

// NewClient creates a vault client over the given gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{
		gw:     gw,
		logger: slog.Default().With("component", "vault"),
	}
}

// loginRequest matches the service's authentication payload. The
// password field is named rawPassword on the wire; the service rejects
// a plain "password" key.
type loginRequest struct {
	Username    string `json:"username"`
	RawPassword string `json:"rawPassword"`
}

// loginResponse is the success body of the login endpoint. Role is
// optional and, when present, takes precedence over the token claim.
type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// registerRequest matches the service's registration payload.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates with the service and returns the issued
// credential and optional role hint.
func (c *Client) Login(ctx context.Context, username, password string) (session.LoginReply, error) {
	var resp loginResponse
	err := c.gw.PostJSON(ctx, apiPrefix+"/users/login", loginRequest{
		Username:    username,
		RawPassword: password,
	}, &resp)
	if err != nil {
		return session.LoginReply{}, err
	}
	return session.LoginReply{Token: resp.Token, Role: resp.Role}, nil
}

// Register creates a new vault account. The response body is arbitrary
// and discarded; only the status matters.
func (c *Client) Register(ctx context.Context, reg session.Registration) error {
	return c.gw.PostJSON(ctx, apiPrefix+"/users/register", registerRequest{
		Username: reg.Username,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     reg.Role,
	}, nil)
}
