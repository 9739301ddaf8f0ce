// ABOUTME: Audit log retrieval for the admin console view
// ABOUTME: Normalizes bare-array and wrapped {logs: [...]} response shapes

package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironclad/vault-console/internal/gateway"
)

// AuditEntry is one server-side audit record. Fields the service omits
// stay empty and render as placeholders.
type AuditEntry struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	IPAddress string `json:"ipAddress"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// AuditLogs returns the service audit trail. The endpoint is admin-only
// on the server; the console additionally hides the view for non-admin
// identities.
func (c *Client) AuditLogs(ctx context.Context) ([]AuditEntry, error) {
	var raw json.RawMessage
	if err := c.gw.GetJSON(ctx, apiPrefix+"/vault/audit-logs", &raw); err != nil {
		return nil, err
	}
	return decodeAuditList(raw)
}

// decodeAuditList accepts either a bare array or the wrapped
// {logs: [...]} form.
func decodeAuditList(raw json.RawMessage) ([]AuditEntry, error) {
	var entries []AuditEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if inner, ok := wrapped["logs"]; ok {
			if err := json.Unmarshal(inner, &entries); err == nil {
				return entries, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: expected a log array or {logs: [...]}", gateway.ErrUnexpectedShape)
}
