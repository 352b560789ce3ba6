package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AuditTrail returns a page of audit entries matching the query.
func (c *Client) AuditTrail(ctx context.Context, q AuditQuery) (*AuditPage, error) {
	params := url.Values{}
	if q.Actor != "" {
		params.Set("actor", q.Actor)
	}
	if q.Action != "" {
		params.Set("action", q.Action)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	path := "/audit"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page AuditPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AuditActions returns the distinct action names present in the trail,
// used to populate filter options.
func (c *Client) AuditActions(ctx context.Context) ([]string, error) {
	var actions []string
	if err := c.do(ctx, http.MethodGet, "/audit/actions", nil, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}
