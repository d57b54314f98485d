package anthropictest

import (
	"context"
	"strings"
	"testing"

	anthropic "github.com/solumlabs/anthropic-go"
)

func newTestServer(t *testing.T) (*Server, *anthropic.Client) {
	t.Helper()
	srv := NewServer()
	t.Cleanup(srv.Close)

	client, err := srv.Client()
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	return srv, client
}

func messageRequest() *anthropic.MessageRequest {
	return anthropic.NewMessageRequest(
		"claude-3-5-haiku-20241022",
		[]anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: anthropic.TextContent("Hello, fake server!"),
		}},
		20,
	)
}

func TestServer_CreateMessage(t *testing.T) {
	_, client := newTestServer(t)

	resp, err := client.CreateMessage(context.Background(), messageRequest())
	if err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}

	if resp.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.Role != anthropic.RoleAssistant {
		t.Errorf("Role = %q, want assistant", resp.Role)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != anthropic.BlockTypeText {
		t.Fatalf("Content = %+v, want one text block", resp.Content)
	}
	if resp.Content[0].Text == "" {
		t.Error("generated text is empty")
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("StopReason = %q, want end_turn", resp.StopReason)
	}
	if resp.Usage.InputTokens <= 0 || resp.Usage.OutputTokens <= 0 {
		t.Errorf("Usage = %+v, want positive token counts", resp.Usage)
	}
}

func TestServer_RejectsBadRequests(t *testing.T) {
	_, client := newTestServer(t)

	req := messageRequest()
	req.MaxTokens = 0
	_, err := client.CreateMessage(context.Background(), req)
	if !anthropic.IsInvalidRequest(err) {
		t.Errorf("IsInvalidRequest(%v) = false, want true", err)
	}
}

func TestServer_RejectsWrongKey(t *testing.T) {
	srv := NewServer()
	t.Cleanup(srv.Close)

	client, err := anthropic.NewClient(anthropic.NewCredentials("sk-ant-wrong", srv.URL+"/v1/"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.CreateMessage(context.Background(), messageRequest())
	if !anthropic.IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestServer_StreamMessage(t *testing.T) {
	_, client := newTestServer(t)

	events, err := client.StreamMessage(context.Background(), messageRequest())
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	var types []string
	var text strings.Builder
	for event := range events {
		if event.Err != nil {
			t.Fatalf("stream error: %v", event.Err)
		}
		types = append(types, event.Type)
		if event.Type == anthropic.EventContentBlockDelta {
			text.WriteString(event.Delta.Text)
		}
	}

	if len(types) < 5 {
		t.Fatalf("got %d events, want the full sequence: %v", len(types), types)
	}
	if types[0] != anthropic.EventMessageStart {
		t.Errorf("first event = %q, want message_start", types[0])
	}
	if types[1] != anthropic.EventContentBlockStart {
		t.Errorf("second event = %q, want content_block_start", types[1])
	}
	if types[len(types)-1] != anthropic.EventMessageStop {
		t.Errorf("last event = %q, want message_stop", types[len(types)-1])
	}
	if types[len(types)-2] != anthropic.EventMessageDelta {
		t.Errorf("second-to-last event = %q, want message_delta", types[len(types)-2])
	}

	// Pings are interleaved on the wire but must never reach the consumer.
	for _, typ := range types {
		if typ == anthropic.EventPing {
			t.Error("ping event leaked to consumer")
		}
	}

	if text.Len() == 0 {
		t.Error("no text assembled from deltas")
	}
}

func TestServer_ListModels(t *testing.T) {
	srv, client := newTestServer(t)

	t.Run("single page", func(t *testing.T) {
		list, err := client.ListModels(context.Background(), nil)
		if err != nil {
			t.Fatalf("ListModels() error = %v", err)
		}
		if len(list.Data) != len(srv.models) {
			t.Errorf("got %d models, want %d", len(list.Data), len(srv.models))
		}
		if list.HasMore {
			t.Error("HasMore = true on a complete page")
		}
	})

	t.Run("paged with cursor", func(t *testing.T) {
		first, err := client.ListModels(context.Background(), &anthropic.ListParams{Limit: 2})
		if err != nil {
			t.Fatalf("ListModels() error = %v", err)
		}
		if len(first.Data) != 2 || !first.HasMore {
			t.Fatalf("first page = %d models, HasMore=%v", len(first.Data), first.HasMore)
		}

		second, err := client.ListModels(context.Background(), &anthropic.ListParams{Limit: 2, AfterID: first.LastID})
		if err != nil {
			t.Fatalf("ListModels() error = %v", err)
		}
		if len(second.Data) != 2 {
			t.Fatalf("second page = %d models, want 2", len(second.Data))
		}
		if second.Data[0].ID == first.Data[0].ID {
			t.Error("second page repeats the first page")
		}
	})
}

func TestServer_GetModel(t *testing.T) {
	_, client := newTestServer(t)

	model, err := client.GetModel(context.Background(), "claude-3-opus-20240229")
	if err != nil {
		t.Fatalf("GetModel() error = %v", err)
	}
	if model.DisplayName != "Claude 3 Opus" {
		t.Errorf("DisplayName = %q", model.DisplayName)
	}

	_, err = client.GetModel(context.Background(), "claude-nonexistent")
	if !anthropic.IsInvalidRequest(err) {
		t.Errorf("IsInvalidRequest(%v) = false for unknown model", err)
	}
}
