// ABOUTME: File operations: list, upload, download, delete, search
// ABOUTME: Normalizes bare-array and wrapped {files: [...]} response shapes

package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/ironclad/vault-console/internal/gateway"
)

// File is one vault entry as the service reports it. UploadTime is kept
// as the service's string form; the console renders it verbatim.
type File struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadedBy string `json:"uploadedBy"`
	UploadTime string `json:"uploadTime"`
}

// ListFiles returns the files visible to the current identity. Managers
// and admins see every file; the server decides, not the client.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	var raw json.RawMessage
	if err := c.gw.GetJSON(ctx, apiPrefix+"/vault/files", &raw); err != nil {
		return nil, err
	}
	return decodeFileList(raw)
}

// SearchFiles returns files matching the query.
func (c *Client) SearchFiles(ctx context.Context, query string) ([]File, error) {
	var raw json.RawMessage
	path := apiPrefix + "/vault/search?query=" + url.QueryEscape(query)
	if err := c.gw.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeFileList(raw)
}

// Upload stores the contents of r under filename. The service responds
// with the saved entry; fields it omits stay zero.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*File, error) {
	var saved File
	if err := c.gw.PostMultipart(ctx, apiPrefix+"/vault/upload", "file", filename, r, &saved); err != nil {
		return nil, err
	}
	c.logger.Info("file uploaded", "filename", filename)
	return &saved, nil
}

// Download streams the file with the given ID into w, returning the
// number of bytes written.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	body, err := c.gw.GetStream(ctx, apiPrefix+"/vault/download/"+url.PathEscape(id))
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("streaming download: %w", err)
	}
	return n, nil
}

// Delete removes the file with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, apiPrefix+"/vault/delete/"+url.PathEscape(id))
}

// decodeFileList accepts either a bare array or the wrapped
// {files: [...]} form. Anything else is an unexpected shape, surfaced
// as a warning-level error rather than a crash.
func decodeFileList(raw json.RawMessage) ([]File, error) {
	var files []File
	if err := json.Unmarshal(raw, &files); err == nil {
		return files, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if inner, ok := wrapped["files"]; ok {
			if err := json.Unmarshal(inner, &files); err == nil {
				return files, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: expected a file array or {files: [...]}", gateway.ErrUnexpectedShape)
}
