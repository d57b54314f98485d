// Package admin covers the organization administration endpoints: API keys,
// invites, users, and workspaces. These endpoints require an admin API key;
// a regular key is rejected by the server with a permission error.
package admin

import (
	anthropic "github.com/solumlabs/anthropic-go"
)

// Client issues requests against the organization admin endpoints. It wraps
// a configured API client and shares its transport, credentials, and error
// handling.
type Client struct {
	api *anthropic.Client
}

// NewClient wraps an API client for admin calls.
func NewClient(api *anthropic.Client) *Client {
	return &Client{api: api}
}

// Actor identifies who performed an action, e.g. the creator of an API key.
type Actor struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
