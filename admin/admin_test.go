package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	anthropic "github.com/solumlabs/anthropic-go"
)

// recorded captures the last request the test server saw.
type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

func newAdminClient(t *testing.T, respond string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.Query()
		rec.Body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, respond)
	}))
	t.Cleanup(srv.Close)

	api, err := anthropic.NewClient(anthropic.NewCredentials("sk-ant-admin", srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewClient(api), rec
}

func TestListAPIKeys(t *testing.T) {
	client, rec := newAdminClient(t, `{
		"data": [{
			"id": "apikey_1",
			"name": "ci key",
			"created_at": "2024-10-30T23:58:27Z",
			"created_by": {"id": "user_1", "type": "user"},
			"partial_key_hint": "sk-ant-api03-R2D...igAA",
			"status": "active",
			"type": "api_key",
			"workspace_id": "wrkspc_1"
		}],
		"first_id": "apikey_1",
		"last_id": "apikey_1",
		"has_more": false
	}`)

	params := &APIKeyListParams{
		ListParams:  anthropic.ListParams{AfterID: "apikey_0", Limit: 20},
		Status:      APIKeyActive,
		WorkspaceID: "wrkspc_1",
	}
	list, err := client.ListAPIKeys(context.Background(), params)
	if err != nil {
		t.Fatalf("ListAPIKeys() error = %v", err)
	}

	if rec.Method != http.MethodGet || rec.Path != "/organizations/api_keys" {
		t.Errorf("request = %s %s, want GET /organizations/api_keys", rec.Method, rec.Path)
	}
	for key, want := range map[string]string{
		"after_id":     "apikey_0",
		"limit":        "20",
		"status":       "active",
		"workspace_id": "wrkspc_1",
	} {
		if got := rec.Query.Get(key); got != want {
			t.Errorf("query %q = %q, want %q", key, got, want)
		}
	}

	if len(list.Data) != 1 {
		t.Fatalf("got %d keys, want 1", len(list.Data))
	}
	key := list.Data[0]
	if key.Status != APIKeyActive || key.CreatedBy.ID != "user_1" {
		t.Errorf("key = %+v", key)
	}
}

func TestUpdateAPIKey(t *testing.T) {
	client, rec := newAdminClient(t, `{
		"id": "apikey_1", "name": "renamed", "status": "inactive", "type": "api_key",
		"created_at": "2024-10-30T23:58:27Z", "created_by": {"id": "user_1", "type": "user"}
	}`)

	key, err := client.UpdateAPIKey(context.Background(), "apikey_1", &APIKeyUpdateParams{
		Name:   "renamed",
		Status: APIKeyInactive,
	})
	if err != nil {
		t.Fatalf("UpdateAPIKey() error = %v", err)
	}

	if rec.Method != http.MethodPost || rec.Path != "/organizations/api_keys/apikey_1" {
		t.Errorf("request = %s %s", rec.Method, rec.Path)
	}
	if rec.Body["name"] != "renamed" || rec.Body["status"] != "inactive" {
		t.Errorf("body = %v", rec.Body)
	}
	if key.Name != "renamed" || key.Status != APIKeyInactive {
		t.Errorf("key = %+v", key)
	}
}

func TestInviteLifecycle(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		client, rec := newAdminClient(t, `{
			"id": "invite_1", "email": "dev@example.com", "role": "developer",
			"status": "pending", "type": "invite",
			"invited_at": "2024-10-30T23:58:27Z", "expires_at": "2024-11-20T23:58:27Z"
		}`)

		invite, err := client.CreateInvite(context.Background(), "dev@example.com", InviteRoleDeveloper)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}
		if rec.Method != http.MethodPost || rec.Path != "/organizations/invites" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if rec.Body["email"] != "dev@example.com" || rec.Body["role"] != "developer" {
			t.Errorf("body = %v", rec.Body)
		}
		if invite.Status != InvitePending {
			t.Errorf("Status = %q, want pending", invite.Status)
		}
	})

	t.Run("delete", func(t *testing.T) {
		client, rec := newAdminClient(t, `{"id": "invite_1", "type": "invite_deleted"}`)

		deleted, err := client.DeleteInvite(context.Background(), "invite_1")
		if err != nil {
			t.Fatalf("DeleteInvite() error = %v", err)
		}
		if rec.Method != http.MethodDelete || rec.Path != "/organizations/invites/invite_1" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if deleted.ID != "invite_1" {
			t.Errorf("deleted.ID = %q", deleted.ID)
		}
	})
}

func TestUserOperations(t *testing.T) {
	t.Run("list filters by email", func(t *testing.T) {
		client, rec := newAdminClient(t, `{"data": [], "has_more": false}`)

		_, err := client.ListUsers(context.Background(), &UserListParams{Email: "dev@example.com"})
		if err != nil {
			t.Fatalf("ListUsers() error = %v", err)
		}
		if rec.Path != "/organizations/users" || rec.Query.Get("email") != "dev@example.com" {
			t.Errorf("request = %s?%s", rec.Path, rec.Query.Encode())
		}
	})

	t.Run("update role", func(t *testing.T) {
		client, rec := newAdminClient(t, `{
			"id": "user_1", "email": "dev@example.com", "name": "Dev",
			"role": "admin", "type": "user", "added_at": "2024-10-30T23:58:27Z"
		}`)

		user, err := client.UpdateUser(context.Background(), "user_1", UserRoleAdmin)
		if err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}
		if rec.Method != http.MethodPost || rec.Path != "/organizations/users/user_1" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if rec.Body["role"] != "admin" {
			t.Errorf("body = %v", rec.Body)
		}
		if user.Role != UserRoleAdmin {
			t.Errorf("Role = %q", user.Role)
		}
	})

	t.Run("remove", func(t *testing.T) {
		client, rec := newAdminClient(t, `{"id": "user_1", "type": "user_deleted"}`)

		deleted, err := client.RemoveUser(context.Background(), "user_1")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if rec.Method != http.MethodDelete || rec.Path != "/organizations/users/user_1" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if deleted.ID != "user_1" {
			t.Errorf("deleted.ID = %q", deleted.ID)
		}
	})
}

func TestWorkspaceOperations(t *testing.T) {
	t.Run("list includes archived", func(t *testing.T) {
		client, rec := newAdminClient(t, `{"data": [], "has_more": false}`)

		_, err := client.ListWorkspaces(context.Background(), &WorkspaceListParams{IncludeArchived: true})
		if err != nil {
			t.Fatalf("ListWorkspaces() error = %v", err)
		}
		if rec.Query.Get("include_archived") != "true" {
			t.Errorf("query = %v", rec.Query)
		}
	})

	t.Run("create", func(t *testing.T) {
		client, rec := newAdminClient(t, `{
			"id": "wrkspc_1", "name": "Production", "type": "workspace",
			"created_at": "2024-10-30T23:58:27Z", "display_color": "#6C5BB9"
		}`)

		ws, err := client.CreateWorkspace(context.Background(), "Production")
		if err != nil {
			t.Fatalf("CreateWorkspace() error = %v", err)
		}
		if rec.Method != http.MethodPost || rec.Path != "/organizations/workspaces" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if rec.Body["name"] != "Production" {
			t.Errorf("body = %v", rec.Body)
		}
		if ws.ID != "wrkspc_1" {
			t.Errorf("ws.ID = %q", ws.ID)
		}
	})

	t.Run("archive", func(t *testing.T) {
		client, rec := newAdminClient(t, `{
			"id": "wrkspc_1", "name": "Production", "type": "workspace",
			"created_at": "2024-10-30T23:58:27Z", "display_color": "#6C5BB9",
			"archived_at": "2024-11-01T23:59:27Z"
		}`)

		ws, err := client.ArchiveWorkspace(context.Background(), "wrkspc_1")
		if err != nil {
			t.Fatalf("ArchiveWorkspace() error = %v", err)
		}
		if rec.Method != http.MethodPost || rec.Path != "/organizations/workspaces/wrkspc_1/archive" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if ws.ArchivedAt == "" {
			t.Error("ArchivedAt empty, want timestamp")
		}
	})
}

func TestWorkspaceMemberOperations(t *testing.T) {
	memberJSON := `{
		"type": "workspace_member", "user_id": "user_1",
		"workspace_id": "wrkspc_1", "workspace_role": "workspace_developer"
	}`

	t.Run("add", func(t *testing.T) {
		client, rec := newAdminClient(t, memberJSON)

		member, err := client.AddWorkspaceMember(context.Background(), "wrkspc_1", "user_1", WorkspaceRoleDeveloper)
		if err != nil {
			t.Fatalf("AddWorkspaceMember() error = %v", err)
		}
		if rec.Method != http.MethodPost || rec.Path != "/organizations/workspaces/wrkspc_1/members" {
			t.Errorf("request = %s %s", rec.Method, rec.Path)
		}
		if rec.Body["user_id"] != "user_1" || rec.Body["workspace_role"] != "workspace_developer" {
			t.Errorf("body = %v", rec.Body)
		}
		if member.WorkspaceRole != WorkspaceRoleDeveloper {
			t.Errorf("member = %+v", member)
		}
	})

	t.Run("update", func(t *testing.T) {
		client, rec := newAdminClient(t, memberJSON)

		_, err := client.UpdateWorkspaceMember(context.Background(), "wrkspc_1", "user_1", WorkspaceRoleAdmin)
		if err != nil {
			t.Fatalf("UpdateWorkspaceMember() error = %v", err)
		}
		if rec.Path != "/organizations/workspaces/wrkspc_1/members/user_1" {
			t.Errorf("path = %s", rec.Path)
		}
		if rec.Body["workspace_role"] != "workspace_admin" {
			t.Errorf("body = %v", rec.Body)
		}
	})

	t.Run("delete", func(t *testing.T) {
		client, rec := newAdminClient(t, `{
			"type": "workspace_member_deleted", "user_id": "user_1", "workspace_id": "wrkspc_1"
		}`)

		deleted, err := client.DeleteWorkspaceMember(context.Background(), "wrkspc_1", "user_1")
		if err != nil {
			t.Fatalf("DeleteWorkspaceMember() error = %v", err)
		}
		if rec.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", rec.Method)
		}
		if deleted.UserID != "user_1" || deleted.WorkspaceID != "wrkspc_1" {
			t.Errorf("deleted = %+v", deleted)
		}
	})
}

func TestAdmin_PermissionError(t *testing.T) {
	client, _ := newAdminClient(t, `{"type":"error","error":{"type":"permission_error","message":"requires an admin key"}}`)

	_, err := client.ListUsers(context.Background(), nil)

	var apiErr *anthropic.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *anthropic.APIError", err)
	}
	if apiErr.Type != anthropic.ErrorTypePermission {
		t.Errorf("Type = %q, want permission_error", apiErr.Type)
	}
	if !anthropic.IsAuthError(err) {
		t.Error("IsAuthError() = false, want true")
	}
}
