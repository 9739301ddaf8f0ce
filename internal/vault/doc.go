// Package vault is the typed client for the remote encrypted-file-vault
// service. It speaks the /api/v1.0 HTTP contract through the gateway
// choke point and normalizes the service's loosely-shaped list
// responses (bare array vs wrapped object) into canonical slices, so
// nothing downstream branches on response shape.
package vault
