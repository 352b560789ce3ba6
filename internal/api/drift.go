package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListBaselines returns recorded drift baselines.
func (c *Client) ListBaselines(ctx context.Context) ([]Baseline, error) {
	var baselines []Baseline
	if err := c.do(ctx, http.MethodGet, "/drift/baselines", nil, &baselines); err != nil {
		return nil, err
	}
	return baselines, nil
}

// DriftHistory returns the measured comparisons for one baseline,
// oldest first.
func (c *Client) DriftHistory(ctx context.Context, baselineID string) ([]DriftPoint, error) {
	var points []DriftPoint
	if err := c.do(ctx, http.MethodGet, "/drift/history/"+url.PathEscape(baselineID), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
