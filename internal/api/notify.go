package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListWebhooks returns configured outbound webhooks.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var hooks []Webhook
	if err := c.do(ctx, http.MethodGet, "/webhooks", nil, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// CreateWebhook registers a webhook and returns the stored copy.
func (c *Client) CreateWebhook(ctx context.Context, w Webhook) (*Webhook, error) {
	var created Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", w, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWebhook replaces a webhook by id.
func (c *Client) UpdateWebhook(ctx context.Context, w Webhook) (*Webhook, error) {
	var updated Webhook
	if err := c.do(ctx, http.MethodPut, "/webhooks/"+url.PathEscape(w.ID), w, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWebhook removes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/webhooks/"+url.PathEscape(id), nil, nil)
}

// TestWebhook asks the backend to deliver a test event.
func (c *Client) TestWebhook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/webhooks/"+url.PathEscape(id)+"/test", nil, nil)
}

// ListChannels returns notification channels.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := c.do(ctx, http.MethodGet, "/notifications/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// CreateChannel registers a notification channel.
func (c *Client) CreateChannel(ctx context.Context, ch Channel) (*Channel, error) {
	var created Channel
	if err := c.do(ctx, http.MethodPost, "/notifications/channels", ch, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteChannel removes a notification channel.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notifications/channels/"+url.PathEscape(id), nil, nil)
}

// TestChannel asks the backend to send a test notification.
func (c *Client) TestChannel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/channels/"+url.PathEscape(id)+"/test", nil, nil)
}
