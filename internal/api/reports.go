package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListReports returns all generated reports.
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.do(ctx, http.MethodGet, "/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GenerateReport asks the backend to build a report.
func (c *Client) GenerateReport(ctx context.Context, req GenerateReportRequest) (*Report, error) {
	var report Report
	if err := c.do(ctx, http.MethodPost, "/reports/generate", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// DownloadReport fetches the binary report payload and its content type.
func (c *Client) DownloadReport(ctx context.Context, id string) ([]byte, string, error) {
	return c.download(ctx, http.MethodGet, "/reports/"+url.PathEscape(id)+"/download", nil)
}
