package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListRubrics returns scoring rubrics.
func (c *Client) ListRubrics(ctx context.Context) ([]Rubric, error) {
	var rubrics []Rubric
	if err := c.do(ctx, http.MethodGet, "/scoring/rubrics", nil, &rubrics); err != nil {
		return nil, err
	}
	return rubrics, nil
}

// CreateRubric creates a rubric and returns the stored copy.
func (c *Client) CreateRubric(ctx context.Context, r Rubric) (*Rubric, error) {
	var created Rubric
	if err := c.do(ctx, http.MethodPost, "/scoring/rubrics", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRubric replaces a rubric by id.
func (c *Client) UpdateRubric(ctx context.Context, r Rubric) (*Rubric, error) {
	var updated Rubric
	if err := c.do(ctx, http.MethodPut, "/scoring/rubrics/"+url.PathEscape(r.ID), r, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRubric removes a rubric.
func (c *Client) DeleteRubric(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/scoring/rubrics/"+url.PathEscape(id), nil, nil)
}

// Calibrate starts a calibration run for a rubric.
func (c *Client) Calibrate(ctx context.Context, rubricID string) (string, error) {
	var resp LaunchResponse
	body := map[string]string{"rubric_id": rubricID}
	if err := c.do(ctx, http.MethodPost, "/scoring/calibrate", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListCalibrations returns calibration runs.
func (c *Client) ListCalibrations(ctx context.Context) ([]CalibrationRun, error) {
	var runs []CalibrationRun
	if err := c.do(ctx, http.MethodGet, "/scoring/calibrations", nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetCalibration returns one calibration run.
func (c *Client) GetCalibration(ctx context.Context, id string) (*CalibrationRun, error) {
	var run CalibrationRun
	if err := c.do(ctx, http.MethodGet, "/scoring/calibrations/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ApplyCalibration applies a completed calibration's suggested
// thresholds to its rubric.
func (c *Client) ApplyCalibration(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/scoring/calibrations/"+url.PathEscape(id)+"/apply", nil, nil)
}
