// Package anthropictest provides an in-process double of the Anthropic API
// for tests and examples. The server speaks the real wire protocol —
// success-or-error envelopes, cursor pagination, and server-sent-event
// streaming with keepalive pings — but generates lorem ipsum completions, so
// nothing in it requires a real API key.
package anthropictest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"

	loremgen "github.com/bozaro/golorem"

	anthropic "github.com/solumlabs/anthropic-go"
)

// APIKey is the key the server accepts.
const APIKey = "sk-ant-test"

// Server is a fake Anthropic API bound to a local listener.
type Server struct {
	*httptest.Server

	generator *loremgen.Lorem
	models    []anthropic.Model

	// PingEvery inserts a keepalive ping frame after every N delta frames
	// of a streaming response. Zero disables pings.
	PingEvery int
}

// NewServer starts a fake API server. The caller must Close it.
func NewServer() *Server {
	s := &Server{
		generator: loremgen.New(),
		models: []anthropic.Model{
			{ID: "claude-3-7-sonnet-20250219", DisplayName: "Claude 3.7 Sonnet", CreatedAt: "2025-02-19T00:00:00Z", Type: "model"},
			{ID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet", CreatedAt: "2024-10-22T00:00:00Z", Type: "model"},
			{ID: "claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku", CreatedAt: "2024-10-22T00:00:00Z", Type: "model"},
			{ID: "claude-3-opus-20240229", DisplayName: "Claude 3 Opus", CreatedAt: "2024-02-29T00:00:00Z", Type: "model"},
			{ID: "claude-3-haiku-20240307", DisplayName: "Claude 3 Haiku", CreatedAt: "2024-03-07T00:00:00Z", Type: "model"},
		},
		PingEvery: 3,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", s.withAuth(s.handleMessages))
	mux.HandleFunc("GET /v1/models", s.withAuth(s.handleListModels))
	mux.HandleFunc("GET /v1/models/{id}", s.withAuth(s.handleGetModel))
	s.Server = httptest.NewServer(mux)
	return s
}

// Credentials returns credentials pointing at the fake server.
func (s *Server) Credentials() anthropic.Credentials {
	return anthropic.NewCredentials(APIKey, s.URL+"/v1/")
}

// Client returns an API client configured against the fake server.
func (s *Server) Client(opts ...anthropic.Option) (*anthropic.Client, error) {
	return anthropic.NewClient(s.Credentials(), opts...)
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != APIKey {
			writeError(w, http.StatusUnauthorized, anthropic.ErrorTypeAuthentication, "invalid x-api-key")
			return
		}
		if r.Header.Get("anthropic-version") == "" {
			writeError(w, http.StatusBadRequest, anthropic.ErrorTypeInvalidRequest, "anthropic-version header is required")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	var req anthropic.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, anthropic.ErrorTypeInvalidRequest, "malformed request body: "+err.Error())
		return
	}
	if req.Model == "" || len(req.Messages) == 0 || req.MaxTokens <= 0 {
		writeError(w, http.StatusBadRequest, anthropic.ErrorTypeInvalidRequest, "model, messages, and max_tokens are required")
		return
	}

	words := req.MaxTokens
	if words > 60 {
		words = 60
	}
	text := s.generator.Sentence(words, words)
	inputTokens := estimateInputTokens(req.Messages)

	if req.Stream != nil && *req.Stream {
		s.streamMessage(w, &req, text, inputTokens)
		return
	}

	resp := anthropic.MessageResponse{
		ID:         messageID(),
		Model:      req.Model,
		Role:       anthropic.RoleAssistant,
		Content:    []anthropic.ContentBlock{{Type: anthropic.BlockTypeText, Text: text}},
		StopReason: "end_turn",
		Type:       "message",
		Usage: anthropic.Usage{
			InputTokens:  inputTokens,
			OutputTokens: len(strings.Fields(text)),
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

// streamMessage writes the standard event sequence for one text block:
// message_start, content_block_start, one content_block_delta per word with
// periodic pings, content_block_stop, message_delta, message_stop.
func (s *Server) streamMessage(w http.ResponseWriter, req *anthropic.MessageRequest, text string, inputTokens int) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	emit := func(eventType string, payload string) {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
		if flusher != nil {
			flusher.Flush()
		}
	}

	emit("message_start", fmt.Sprintf(
		`{"type":"message_start","message":{"id":%q,"model":%q,"role":"assistant","content":[],"usage":{"input_tokens":%d,"output_tokens":0}}}`,
		messageID(), req.Model, inputTokens))
	emit("content_block_start",
		`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`)

	words := strings.Fields(text)
	for i, word := range words {
		if i > 0 {
			word = " " + word
		}
		delta, _ := json.Marshal(word)
		emit("content_block_delta", fmt.Sprintf(
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%s}}`, delta))
		if s.PingEvery > 0 && (i+1)%s.PingEvery == 0 {
			emit("ping", `{"type":"ping"}`)
		}
	}

	emit("content_block_stop", `{"type":"content_block_stop","index":0}`)
	emit("message_delta", fmt.Sprintf(
		`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"input_tokens":%d,"output_tokens":%d}}`,
		inputTokens, len(words)))
	emit("message_stop", `{"type":"message_stop"}`)
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := s.models
	if afterID := r.URL.Query().Get("after_id"); afterID != "" {
		models = modelsAfter(models, afterID)
	}
	if beforeID := r.URL.Query().Get("before_id"); beforeID != "" {
		models = modelsBefore(models, beforeID)
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, anthropic.ErrorTypeInvalidRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	hasMore := len(models) > limit
	if hasMore {
		models = models[:limit]
	}

	list := anthropic.ModelList{Data: models, HasMore: hasMore}
	if len(models) > 0 {
		list.FirstID = models[0].ID
		list.LastID = models[len(models)-1].ID
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, m := range s.models {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeError(w, http.StatusNotFound, anthropic.ErrorTypeNotFound, "model not found: "+id)
}

func modelsAfter(models []anthropic.Model, id string) []anthropic.Model {
	for i, m := range models {
		if m.ID == id {
			return models[i+1:]
		}
	}
	return nil
}

func modelsBefore(models []anthropic.Model, id string) []anthropic.Model {
	for i, m := range models {
		if m.ID == id {
			return models[:i]
		}
	}
	return models
}

func estimateInputTokens(messages []anthropic.Message) int {
	total := 0
	for _, msg := range messages {
		total += len(strings.Fields(msg.Content.Text()))
		for _, block := range msg.Content.Blocks() {
			total += len(strings.Fields(block.Text))
		}
	}
	if total == 0 {
		total = 1
	}
	return total
}

var messageCounter atomic.Int64

func messageID() string {
	return fmt.Sprintf("msg_test_%06d", messageCounter.Add(1))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type": "error",
		"error": map[string]string{
			"type":    errorType,
			"message": message,
		},
	})
}
