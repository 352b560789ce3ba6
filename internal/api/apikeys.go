package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListAPIKeys returns programmatic access keys. Secrets are never
// included in list responses.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.do(ctx, http.MethodGet, "/api-keys", nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateAPIKey mints a key. The returned Secret is shown exactly once;
// the server never returns it again.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*APIKey, error) {
	var key APIKey
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api-keys", body, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeAPIKey deletes a key by id.
func (c *Client) RevokeAPIKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api-keys/"+url.PathEscape(id), nil, nil)
}
