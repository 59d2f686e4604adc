package api

import (
	"context"

	"github.com/biblioteca-app/circ/internal/domain"
)

// GetSettings reads the circulation policy as one atomic record.
func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	if err := c.get(ctx, "/settings", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the circulation policy.
func (c *Client) UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	var updated domain.Settings
	if err := c.put(ctx, "/settings", settings, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
