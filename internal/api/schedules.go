package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListSchedules returns recurring scan schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	if err := c.do(ctx, http.MethodGet, "/schedules", nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// CreateSchedule creates a schedule and returns the stored copy.
func (c *Client) CreateSchedule(ctx context.Context, s Schedule) (*Schedule, error) {
	var created Schedule
	if err := c.do(ctx, http.MethodPost, "/schedules", s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSchedule replaces a schedule by id.
func (c *Client) UpdateSchedule(ctx context.Context, s Schedule) (*Schedule, error) {
	var updated Schedule
	if err := c.do(ctx, http.MethodPut, "/schedules/"+url.PathEscape(s.ID), s, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/schedules/"+url.PathEscape(id), nil, nil)
}

// TriggerSchedule runs a schedule immediately and returns the run id.
func (c *Client) TriggerSchedule(ctx context.Context, id string) (string, error) {
	var resp LaunchResponse
	if err := c.do(ctx, http.MethodPost, "/schedules/"+url.PathEscape(id)+"/trigger", nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
