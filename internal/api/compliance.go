package api

import (
	"context"
	"net/http"
)

// ListFrameworks returns compliance frameworks with coverage counts.
func (c *Client) ListFrameworks(ctx context.Context) ([]Framework, error) {
	var frameworks []Framework
	if err := c.do(ctx, http.MethodGet, "/compliance/frameworks", nil, &frameworks); err != nil {
		return nil, err
	}
	return frameworks, nil
}

// ComplianceSummary returns the overall coverage summary.
func (c *Client) ComplianceSummary(ctx context.Context) (*ComplianceSummary, error) {
	var summary ComplianceSummary
	if err := c.do(ctx, http.MethodGet, "/compliance/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ComplianceReport generates and downloads a compliance report. The
// payload is opaque binary (typically PDF); the content type is
// returned alongside it.
func (c *Client) ComplianceReport(ctx context.Context, framework string) ([]byte, string, error) {
	body := map[string]string{"framework": framework}
	return c.download(ctx, http.MethodPost, "/compliance/report", body)
}
