package admin

import (
	"context"
	"net/url"

	anthropic "github.com/solumlabs/anthropic-go"
)

// UserRole is a member's organization role.
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleDeveloper UserRole = "developer"
	UserRoleBilling   UserRole = "billing"
	UserRoleAdmin     UserRole = "admin"
)

// User is a member of the organization.
type User struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	AddedAt string   `json:"added_at"`
	Role    UserRole `json:"role"`
	// Type is always "user".
	Type string `json:"type"`
}

// UserList is one page of the member listing.
type UserList struct {
	Data    []User `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// UserDeleted confirms a member removal.
type UserDeleted struct {
	ID string `json:"id"`
	// Type is always "user_deleted".
	Type string `json:"type"`
}

// UserListParams filters and paginates the member listing.
type UserListParams struct {
	anthropic.ListParams
	// Email filters to the member with this email address.
	Email string
}

func (p *UserListParams) query() url.Values {
	if p == nil {
		return url.Values{}
	}
	q := p.ListParams.Query()
	if p.Email != "" {
		q.Set("email", p.Email)
	}
	return q
}

// ListUsers lists the organization's members. params may be nil.
func (c *Client) ListUsers(ctx context.Context, params *UserListParams) (*UserList, error) {
	var list UserList
	if err := c.api.Get(ctx, "organizations/users", params.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetUser returns a specific member.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.api.Get(ctx, "organizations/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes a member's organization role.
func (c *Client) UpdateUser(ctx context.Context, userID string, role UserRole) (*User, error) {
	body := struct {
		Role UserRole `json:"role"`
	}{Role: role}

	var user User
	if err := c.api.Post(ctx, "organizations/users/"+url.PathEscape(userID), &body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RemoveUser removes a member from the organization.
func (c *Client) RemoveUser(ctx context.Context, userID string) (*UserDeleted, error) {
	var deleted UserDeleted
	if err := c.api.Delete(ctx, "organizations/users/"+url.PathEscape(userID), &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}
