package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageRequest is a completion request for the messages endpoint.
//
// Model, Messages, and MaxTokens are required; construct the request with
// NewMessageRequest and set optional fields on the result. Zero-valued
// optional fields are omitted from the wire body.
type MessageRequest struct {
	// Model is the model identifier (e.g. "claude-3-7-sonnet-20250219").
	Model string `json:"model"`
	// Messages is the ordered conversation history.
	Messages []Message `json:"messages"`
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens"`

	// Metadata attaches request metadata such as an end-user identifier.
	Metadata *Metadata `json:"metadata,omitempty"`
	// StopSequences lists sequences at which generation stops.
	StopSequences []string `json:"stop_sequences,omitempty"`
	// Stream requests a server-sent-event response. StreamMessage sets this
	// itself; callers of CreateMessage should leave it unset.
	Stream *bool `json:"stream,omitempty"`
	// System is the system prompt.
	System string `json:"system,omitempty"`
	// Temperature is the sampling temperature (0.0 to 1.0).
	Temperature *float64 `json:"temperature,omitempty"`
	// Thinking configures the extended thinking budget.
	Thinking *Thinking `json:"thinking,omitempty"`
	// ToolChoice controls whether and which tools the model may use.
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`
	// Tools lists tools the model can call.
	Tools []Tool `json:"tools,omitempty"`
	// TopK limits sampling to the top K tokens.
	TopK *int `json:"top_k,omitempty"`
	// TopP is the nucleus sampling cutoff (0.0 to 1.0).
	TopP *float64 `json:"top_p,omitempty"`
}

// NewMessageRequest creates a request with the mandatory fields set and all
// optional generation controls absent.
func NewMessageRequest(model string, messages []Message, maxTokens int) *MessageRequest {
	return &MessageRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
}

// Message is a single message in the conversation.
type Message struct {
	Role    Role           `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the content of a conversation message: either plain text
// or a list of content blocks. Exactly one of the two forms is set.
//
// On the wire the two forms are distinguished by JSON shape — a string is
// plain text, an array is a block list — so decoding is deterministic and
// independent of field order.
type MessageContent struct {
	text   string
	blocks []ContentBlockParam
}

// TextContent returns plain-text message content.
func TextContent(text string) MessageContent {
	return MessageContent{text: text}
}

// BlocksContent returns structured message content.
func BlocksContent(blocks ...ContentBlockParam) MessageContent {
	if blocks == nil {
		blocks = []ContentBlockParam{}
	}
	return MessageContent{blocks: blocks}
}

// Text returns the plain-text form, or "" if the content is a block list.
func (m MessageContent) Text() string {
	return m.text
}

// Blocks returns the block-list form, or nil for plain text.
func (m MessageContent) Blocks() []ContentBlockParam {
	return m.blocks
}

// MarshalJSON encodes plain text as a JSON string and a block list as a
// JSON array.
func (m MessageContent) MarshalJSON() ([]byte, error) {
	if m.blocks != nil {
		return json.Marshal(m.blocks)
	}
	return json.Marshal(m.text)
}

// UnmarshalJSON decodes either form by JSON shape.
func (m *MessageContent) UnmarshalJSON(data []byte) error {
	switch v := gjson.ParseBytes(data); v.Type {
	case gjson.String:
		m.text = v.String()
		m.blocks = nil
		return nil
	case gjson.JSON:
		if v.IsArray() {
			m.text = ""
			if err := json.Unmarshal(data, &m.blocks); err != nil {
				return err
			}
			if m.blocks == nil {
				m.blocks = []ContentBlockParam{}
			}
			return nil
		}
	}
	return &DecodeError{Raw: data, Err: fmt.Errorf("message content must be a string or an array of blocks")}
}

// Request content block types.
const (
	BlockTypeText             = "text"
	BlockTypeImage            = "image"
	BlockTypeToolUse          = "tool_use"
	BlockTypeThinking         = "thinking"
	BlockTypeRedactedThinking = "redacted_thinking"
)

// ContentBlockParam is a content block in a request, tagged by Type.
type ContentBlockParam struct {
	Type string `json:"type"`
	// Text carries the text for "text" blocks.
	Text string `json:"text,omitempty"`
	// Source carries the image payload for "image" blocks.
	Source *ImageSource `json:"source,omitempty"`
}

// TextBlock creates a text request block.
func TextBlock(text string) ContentBlockParam {
	return ContentBlockParam{Type: BlockTypeText, Text: text}
}

// ImageBlock creates a base64-encoded image request block. mediaType is the
// MIME type, e.g. "image/png".
func ImageBlock(mediaType, base64Data string) ContentBlockParam {
	return ContentBlockParam{
		Type: BlockTypeImage,
		Source: &ImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}
}

// ImageSource is the payload of an image block. Only base64 sources are
// supported by the API.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Thinking configures extended thinking for a request. BudgetTokens must be
// at least 1024 and less than MaxTokens when thinking is enabled.
type Thinking struct {
	Type         string `json:"type"` // "enabled" or "disabled"
	BudgetTokens int    `json:"budget_tokens"`
}

// ThinkingEnabled returns an enabled thinking configuration with the given
// token budget.
func ThinkingEnabled(budgetTokens int) *Thinking {
	return &Thinking{Type: "enabled", BudgetTokens: budgetTokens}
}

// ThinkingDisabled returns a disabled thinking configuration.
func ThinkingDisabled() *Thinking {
	return &Thinking{Type: "disabled"}
}

// Tool defines a function the model can request to invoke.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// InputSchema is a JSON Schema value describing the tool's input.
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolChoice controls how the model decides whether to use tools, tagged by
// Type: "auto", "any", "none", or "tool" with a specific Name.
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// ToolChoiceAuto lets the model decide whether to use tools.
func ToolChoiceAuto() *ToolChoice { return &ToolChoice{Type: "auto"} }

// ToolChoiceAny lets the model use any available tool.
func ToolChoiceAny() *ToolChoice { return &ToolChoice{Type: "any"} }

// ToolChoiceNone forbids tool use.
func ToolChoiceNone() *ToolChoice { return &ToolChoice{Type: "none"} }

// ToolChoiceTool forces the model to use the named tool.
func ToolChoiceTool(name string) *ToolChoice { return &ToolChoice{Type: "tool", Name: name} }

// Metadata is request metadata unrelated to generation behavior.
type Metadata struct {
	// UserID is an opaque end-user identifier for abuse tracking.
	UserID string `json:"user_id,omitempty"`
}

// MessageResponse is the complete (non-streaming) result of a completion
// request.
type MessageResponse struct {
	// ID is the unique message identifier.
	ID string `json:"id"`
	// Model is the model that generated the response.
	Model string `json:"model"`
	// Role is always RoleAssistant for responses.
	Role Role `json:"role"`
	// Content is the ordered list of generated content blocks.
	Content []ContentBlock `json:"content"`
	// StopReason is why generation stopped ("end_turn", "max_tokens",
	// "stop_sequence", "tool_use"), empty while streaming.
	StopReason string `json:"stop_reason,omitempty"`
	// StopSequence is the matched stop sequence, if StopReason is
	// "stop_sequence".
	StopSequence string `json:"stop_sequence,omitempty"`
	// Type is always "message".
	Type string `json:"type"`
	// Usage is the token accounting for the request and response.
	Usage Usage `json:"usage"`
}

// ContentBlock is a content block in a response, tagged by Type. The fields
// populated depend on the tag: Text for "text"; ID, Name, and Input for
// "tool_use"; Signature and Thinking for "thinking"; Data for
// "redacted_thinking".
type ContentBlock struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"`

	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	Signature string `json:"signature,omitempty"`
	Thinking  string `json:"thinking,omitempty"`

	Data string `json:"data,omitempty"`
}

// Usage is the token accounting for a request and response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	// CacheCreationInputTokens is the number of tokens written to the prompt
	// cache, when prompt caching was used.
	CacheCreationInputTokens *int `json:"cache_creation_input_tokens,omitempty"`
	// CacheReadInputTokens is the number of tokens read from the prompt
	// cache, when prompt caching was used.
	CacheReadInputTokens *int `json:"cache_read_input_tokens,omitempty"`
}

// knownBlockTypes is the closed set of response block variants this client
// decodes.
var knownBlockTypes = map[string]bool{
	BlockTypeText:             true,
	BlockTypeToolUse:          true,
	BlockTypeThinking:         true,
	BlockTypeRedactedThinking: true,
}

func (c *Client) checkBlockType(t string) error {
	if c.unknownPolicy == UnknownError && !knownBlockTypes[t] {
		return fmt.Errorf("content block type %q: %w", t, ErrUnknownEvent)
	}
	return nil
}

// CreateMessage sends a completion request and returns the complete response.
// A server-side failure is returned as *APIError; transport and decode
// failures as *RequestError and *DecodeError respectively.
func (c *Client) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.Post(ctx, "messages", req, &resp); err != nil {
		return nil, err
	}
	for _, block := range resp.Content {
		if err := c.checkBlockType(block.Type); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}
