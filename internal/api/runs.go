package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListRuns returns all attack runs, newest first.
func (c *Client) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := c.do(ctx, http.MethodGet, "/attacks/runs", nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns one run with its findings.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/attacks/runs/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// LaunchRun starts a new attack run and returns its id.
func (c *Client) LaunchRun(ctx context.Context, req LaunchRequest) (string, error) {
	var resp LaunchResponse
	if err := c.do(ctx, http.MethodPost, "/attacks/run", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
