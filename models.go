package anthropic

import (
	"context"
	"net/url"
)

// Model is a model available through the API.
type Model struct {
	// ID is the unique model identifier.
	ID string `json:"id"`
	// DisplayName is a human-readable name for the model.
	DisplayName string `json:"display_name"`
	// CreatedAt is the RFC 3339 release time of the model.
	CreatedAt string `json:"created_at"`
	// Type is always "model".
	Type string `json:"type"`
}

// ModelList is one page of the models listing.
type ModelList struct {
	Data []Model `json:"data"`
	// FirstID and LastID are cursors for the first and last items of this
	// page, empty when the page is empty.
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	// HasMore indicates more results exist in the requested page direction.
	HasMore bool `json:"has_more"`
}

// ListModels lists available models. params may be nil for the first page
// with the server's default size.
func (c *Client) ListModels(ctx context.Context, params *ListParams) (*ModelList, error) {
	var list ModelList
	if err := c.Get(ctx, "models", params.Query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetModel returns a specific model by identifier or alias.
func (c *Client) GetModel(ctx context.Context, modelID string) (*Model, error) {
	var model Model
	if err := c.Get(ctx, "models/"+url.PathEscape(modelID), nil, &model); err != nil {
		return nil, err
	}
	return &model, nil
}
