package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Identity is the user identity decoded from a bearer token.
type Identity struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Login obtains a bearer token and persists it in the session store.
func (c *Client) Login(ctx context.Context, username, password string) (*Identity, error) {
	var resp LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: empty access token")
	}
	if err := c.sessions.SetToken(resp.AccessToken); err != nil {
		return nil, fmt.Errorf("persisting token: %w", err)
	}
	id, err := ParseIdentity(resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return id, nil
}

// Logout notifies the server best-effort, then clears the local token
// unconditionally. The client must never stay in an authenticated-
// looking state after logout, even if the server call failed.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		c.logger.Debug("server logout failed", "error", err)
	}
	return c.sessions.Clear()
}

// CurrentIdentity decodes the stored token, if any. A malformed or
// expired token is cleared and treated as absent, not surfaced as an
// error.
func (c *Client) CurrentIdentity() *Identity {
	token := c.sessions.Token()
	if token == "" {
		return nil
	}
	id, err := ParseIdentity(token)
	if err != nil || (!id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)) {
		_ = c.sessions.Clear()
		return nil
	}
	return id
}

// ParseIdentity extracts the username, role, and expiry from a JWT
// payload. The signature is not verified; the server is the authority
// on token validity, this is only used to render the local identity.
func ParseIdentity(token string) (*Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}
	var claims struct {
		Sub  string `json:"sub"`
		Role string `json:"role"`
		Exp  int64  `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parsing claims: %w", err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	id := &Identity{Username: claims.Sub, Role: claims.Role}
	if claims.Exp > 0 {
		id.ExpiresAt = time.Unix(claims.Exp, 0)
	}
	return id, nil
}
