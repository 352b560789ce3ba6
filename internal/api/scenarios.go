package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListScenarios returns all attack scenarios.
func (c *Client) ListScenarios(ctx context.Context) ([]Scenario, error) {
	var scenarios []Scenario
	if err := c.do(ctx, http.MethodGet, "/attacks/scenarios", nil, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// CreateScenario creates a scenario and returns the stored copy.
func (c *Client) CreateScenario(ctx context.Context, s Scenario) (*Scenario, error) {
	var created Scenario
	if err := c.do(ctx, http.MethodPost, "/attacks/scenarios", s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateScenario replaces a scenario by id.
func (c *Client) UpdateScenario(ctx context.Context, s Scenario) (*Scenario, error) {
	var updated Scenario
	if err := c.do(ctx, http.MethodPut, "/attacks/scenarios/"+url.PathEscape(s.ID), s, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteScenario removes a scenario.
func (c *Client) DeleteScenario(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/attacks/scenarios/"+url.PathEscape(id), nil, nil)
}
