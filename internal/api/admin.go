package api

import (
	"context"
	"net/http"
	"net/url"
)

// Health returns the backend health summary.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListTools returns the attack tools available on the backend.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	var tools []ToolInfo
	if err := c.do(ctx, http.MethodGet, "/tools", nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// ListUsers returns platform users. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]UserInfo, error) {
	var users []UserInfo
	if err := c.do(ctx, http.MethodGet, "/auth/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser provisions a user. Admin only.
func (c *Client) CreateUser(ctx context.Context, username, password, role string) (*UserInfo, error) {
	var user UserInfo
	body := map[string]string{"username": username, "password": password, "role": role}
	if err := c.do(ctx, http.MethodPost, "/auth/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/users/"+url.PathEscape(id), nil, nil)
}
