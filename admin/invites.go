package admin

import (
	"context"
	"net/url"

	anthropic "github.com/solumlabs/anthropic-go"
)

// InviteRole is the organization role granted when an invite is accepted.
type InviteRole string

const (
	InviteRoleUser      InviteRole = "user"
	InviteRoleDeveloper InviteRole = "developer"
	InviteRoleBilling   InviteRole = "billing"
	InviteRoleAdmin     InviteRole = "admin"
)

// InviteStatus is the lifecycle state of an invite.
type InviteStatus string

const (
	InviteAccepted      InviteStatus = "accepted"
	InviteExpired       InviteStatus = "expired"
	InviteStatusDeleted InviteStatus = "deleted"
	InvitePending       InviteStatus = "pending"
)

// Invite is a pending or resolved invitation to the organization.
type Invite struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	InvitedAt string       `json:"invited_at"`
	ExpiresAt string       `json:"expires_at"`
	Role      InviteRole   `json:"role"`
	Status    InviteStatus `json:"status"`
	// Type is always "invite".
	Type string `json:"type"`
}

// InviteList is one page of the invite listing.
type InviteList struct {
	Data    []Invite `json:"data"`
	FirstID string   `json:"first_id,omitempty"`
	LastID  string   `json:"last_id,omitempty"`
	HasMore bool     `json:"has_more"`
}

// InviteDeleted confirms an invite deletion.
type InviteDeleted struct {
	ID string `json:"id"`
	// Type is always "invite_deleted".
	Type string `json:"type"`
}

// ListInvites lists the organization's invites. params may be nil.
func (c *Client) ListInvites(ctx context.Context, params *anthropic.ListParams) (*InviteList, error) {
	var list InviteList
	if err := c.api.Get(ctx, "organizations/invites", params.Query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetInvite returns a specific invite.
func (c *Client) GetInvite(ctx context.Context, inviteID string) (*Invite, error) {
	var invite Invite
	if err := c.api.Get(ctx, "organizations/invites/"+url.PathEscape(inviteID), nil, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// CreateInvite invites a user to the organization with the given role.
func (c *Client) CreateInvite(ctx context.Context, email string, role InviteRole) (*Invite, error) {
	body := struct {
		Email string     `json:"email"`
		Role  InviteRole `json:"role"`
	}{Email: email, Role: role}

	var invite Invite
	if err := c.api.Post(ctx, "organizations/invites", &body, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// DeleteInvite revokes a pending invite.
func (c *Client) DeleteInvite(ctx context.Context, inviteID string) (*InviteDeleted, error) {
	var deleted InviteDeleted
	if err := c.api.Delete(ctx, "organizations/invites/"+url.PathEscape(inviteID), &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}
