package api

import (
	"context"
	"net/http"
	"net/url"
)

// Compare launches a multi-model comparison.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	var cmp Comparison
	if err := c.do(ctx, http.MethodPost, "/attacks/compare", req, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// ListComparisons returns past comparisons.
func (c *Client) ListComparisons(ctx context.Context) ([]Comparison, error) {
	var cmps []Comparison
	if err := c.do(ctx, http.MethodGet, "/attacks/comparisons", nil, &cmps); err != nil {
		return nil, err
	}
	return cmps, nil
}

// GetComparison returns one comparison with its scorecard rows.
func (c *Client) GetComparison(ctx context.Context, id string) (*ComparisonDetail, error) {
	var detail ComparisonDetail
	if err := c.do(ctx, http.MethodGet, "/attacks/comparisons/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
