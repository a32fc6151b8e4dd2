package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookstore-migrator/internal/infrastructure/httpx"
	"bookstore-migrator/internal/infrastructure/storage"
)

// Upload stores data under key in the configured bucket. x-upsert is false,
// so an existing object is never overwritten (storage.ErrObjectExists).
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := fmt.Sprintf("/storage/v1/object/%s/%s", c.bucket, strings.TrimLeft(key, "/"))

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=31536000")
	req.Header.Set("x-upsert", "false")

	if err := c.do(req, nil); err != nil {
		if isDuplicateObject(err) {
			return "", fmt.Errorf("%w: %s", storage.ErrObjectExists, key)
		}
		return "", fmt.Errorf("failed to upload to supabase storage: %w", err)
	}

	return c.PublicURL(key), nil
}

// PublicURL: {SUPABASE_URL}/storage/v1/object/public/{bucket}/{key}
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, strings.TrimLeft(key, "/"))
}

func isDuplicateObject(err error) bool {
	var reqErr *httpx.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.StatusCode == http.StatusConflict {
		return true
	}
	body := strings.ToLower(reqErr.Body)
	return strings.Contains(body, "duplicate") || strings.Contains(body, "already exists")
}
