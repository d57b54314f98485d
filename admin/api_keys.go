package admin

import (
	"context"
	"net/url"

	anthropic "github.com/solumlabs/anthropic-go"
)

// APIKeyStatus is the lifecycle state of an API key.
type APIKeyStatus string

const (
	APIKeyActive   APIKeyStatus = "active"
	APIKeyInactive APIKeyStatus = "inactive"
	APIKeyArchived APIKeyStatus = "archived"
)

// APIKey is an API key in the organization.
type APIKey struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"created_at"`
	CreatedBy Actor        `json:"created_by"`
	// PartialKeyHint is a partially redacted hint of the key material.
	PartialKeyHint string       `json:"partial_key_hint,omitempty"`
	Status         APIKeyStatus `json:"status"`
	// Type is always "api_key".
	Type string `json:"type"`
	// WorkspaceID is empty for keys in the default workspace.
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// APIKeyList is one page of the API key listing.
type APIKeyList struct {
	Data    []APIKey `json:"data"`
	FirstID string   `json:"first_id,omitempty"`
	LastID  string   `json:"last_id,omitempty"`
	HasMore bool     `json:"has_more"`
}

// APIKeyListParams filters and paginates the API key listing.
type APIKeyListParams struct {
	anthropic.ListParams
	Status          APIKeyStatus
	WorkspaceID     string
	CreatedByUserID string
}

func (p *APIKeyListParams) query() url.Values {
	if p == nil {
		return url.Values{}
	}
	q := p.ListParams.Query()
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.WorkspaceID != "" {
		q.Set("workspace_id", p.WorkspaceID)
	}
	if p.CreatedByUserID != "" {
		q.Set("created_by_user_id", p.CreatedByUserID)
	}
	return q
}

// ListAPIKeys lists the organization's API keys. params may be nil.
func (c *Client) ListAPIKeys(ctx context.Context, params *APIKeyListParams) (*APIKeyList, error) {
	var list APIKeyList
	if err := c.api.Get(ctx, "organizations/api_keys", params.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAPIKey returns a specific API key.
func (c *Client) GetAPIKey(ctx context.Context, apiKeyID string) (*APIKey, error) {
	var key APIKey
	if err := c.api.Get(ctx, "organizations/api_keys/"+url.PathEscape(apiKeyID), nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// APIKeyUpdateParams are the mutable properties of an API key. Zero-valued
// fields are left unchanged.
type APIKeyUpdateParams struct {
	Name   string       `json:"name,omitempty"`
	Status APIKeyStatus `json:"status,omitempty"`
}

// UpdateAPIKey updates an API key's name or status.
func (c *Client) UpdateAPIKey(ctx context.Context, apiKeyID string, params *APIKeyUpdateParams) (*APIKey, error) {
	var key APIKey
	if err := c.api.Post(ctx, "organizations/api_keys/"+url.PathEscape(apiKeyID), params, &key); err != nil {
		return nil, err
	}
	return &key, nil
}
