package admin

import (
	"context"
	"net/url"

	anthropic "github.com/solumlabs/anthropic-go"
)

// Workspace is a workspace in the organization.
type Workspace struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	// ArchivedAt is empty for active workspaces.
	ArchivedAt   string `json:"archived_at,omitempty"`
	DisplayColor string `json:"display_color"`
	// Type is always "workspace".
	Type string `json:"type"`
}

// WorkspaceList is one page of the workspace listing.
type WorkspaceList struct {
	Data    []Workspace `json:"data"`
	FirstID string      `json:"first_id,omitempty"`
	LastID  string      `json:"last_id,omitempty"`
	HasMore bool        `json:"has_more"`
}

// WorkspaceListParams filters and paginates the workspace listing.
type WorkspaceListParams struct {
	anthropic.ListParams
	// IncludeArchived includes archived workspaces in the listing.
	IncludeArchived bool
}

func (p *WorkspaceListParams) query() url.Values {
	if p == nil {
		return url.Values{}
	}
	q := p.ListParams.Query()
	if p.IncludeArchived {
		q.Set("include_archived", "true")
	}
	return q
}

// ListWorkspaces lists the organization's workspaces. params may be nil.
func (c *Client) ListWorkspaces(ctx context.Context, params *WorkspaceListParams) (*WorkspaceList, error) {
	var list WorkspaceList
	if err := c.api.Get(ctx, "organizations/workspaces", params.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkspace returns a specific workspace.
func (c *Client) GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	var ws Workspace
	if err := c.api.Get(ctx, "organizations/workspaces/"+url.PathEscape(workspaceID), nil, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// CreateWorkspace creates a workspace with the given name.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	var ws Workspace
	if err := c.api.Post(ctx, "organizations/workspaces", &body, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// UpdateWorkspace renames a workspace.
func (c *Client) UpdateWorkspace(ctx context.Context, workspaceID, name string) (*Workspace, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	var ws Workspace
	if err := c.api.Post(ctx, "organizations/workspaces/"+url.PathEscape(workspaceID), &body, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// ArchiveWorkspace archives a workspace.
func (c *Client) ArchiveWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	var ws Workspace
	if err := c.api.Post(ctx, "organizations/workspaces/"+url.PathEscape(workspaceID)+"/archive", nil, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// WorkspaceMemberRole is a member's role within a workspace.
type WorkspaceMemberRole string

const (
	WorkspaceRoleUser      WorkspaceMemberRole = "workspace_user"
	WorkspaceRoleDeveloper WorkspaceMemberRole = "workspace_developer"
	WorkspaceRoleAdmin     WorkspaceMemberRole = "workspace_admin"
	WorkspaceRoleBilling   WorkspaceMemberRole = "workspace_billing"
)

// WorkspaceMember is a user's membership in a workspace.
type WorkspaceMember struct {
	// Type is always "workspace_member".
	Type          string              `json:"type"`
	UserID        string              `json:"user_id"`
	WorkspaceID   string              `json:"workspace_id"`
	WorkspaceRole WorkspaceMemberRole `json:"workspace_role"`
}

// WorkspaceMemberList is one page of a workspace's member listing.
type WorkspaceMemberList struct {
	Data    []WorkspaceMember `json:"data"`
	FirstID string            `json:"first_id,omitempty"`
	LastID  string            `json:"last_id,omitempty"`
	HasMore bool              `json:"has_more"`
}

// WorkspaceMemberDeleted confirms a workspace membership removal.
type WorkspaceMemberDeleted struct {
	// Type is always "workspace_member_deleted".
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
}

func memberRoute(workspaceID, userID string) string {
	route := "organizations/workspaces/" + url.PathEscape(workspaceID) + "/members"
	if userID != "" {
		route += "/" + url.PathEscape(userID)
	}
	return route
}

// ListWorkspaceMembers lists the members of a workspace. params may be nil.
func (c *Client) ListWorkspaceMembers(ctx context.Context, workspaceID string, params *anthropic.ListParams) (*WorkspaceMemberList, error) {
	var list WorkspaceMemberList
	if err := c.api.Get(ctx, memberRoute(workspaceID, ""), params.Query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkspaceMember returns a user's membership in a workspace.
func (c *Client) GetWorkspaceMember(ctx context.Context, workspaceID, userID string) (*WorkspaceMember, error) {
	var member WorkspaceMember
	if err := c.api.Get(ctx, memberRoute(workspaceID, userID), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// AddWorkspaceMember adds a user to a workspace with the given role.
func (c *Client) AddWorkspaceMember(ctx context.Context, workspaceID, userID string, role WorkspaceMemberRole) (*WorkspaceMember, error) {
	body := struct {
		UserID        string              `json:"user_id"`
		WorkspaceRole WorkspaceMemberRole `json:"workspace_role"`
	}{UserID: userID, WorkspaceRole: role}

	var member WorkspaceMember
	if err := c.api.Post(ctx, memberRoute(workspaceID, ""), &body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateWorkspaceMember changes a user's role within a workspace.
func (c *Client) UpdateWorkspaceMember(ctx context.Context, workspaceID, userID string, role WorkspaceMemberRole) (*WorkspaceMember, error) {
	body := struct {
		WorkspaceRole WorkspaceMemberRole `json:"workspace_role"`
	}{WorkspaceRole: role}

	var member WorkspaceMember
	if err := c.api.Post(ctx, memberRoute(workspaceID, userID), &body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteWorkspaceMember removes a user from a workspace.
func (c *Client) DeleteWorkspaceMember(ctx context.Context, workspaceID, userID string) (*WorkspaceMemberDeleted, error) {
	var deleted WorkspaceMemberDeleted
	if err := c.api.Delete(ctx, memberRoute(workspaceID, userID), &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}
