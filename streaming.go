package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// Streaming event type tags.
const (
	EventMessageStart      = "message_start"
	EventContentBlockStart = "content_block_start"
	EventContentBlockDelta = "content_block_delta"
	EventContentBlockStop  = "content_block_stop"
	EventMessageDelta      = "message_delta"
	EventMessageStop       = "message_stop"
	EventPing              = "ping"
	eventError             = "error"
)

// streamChannelCapacity bounds the event channel. When the consumer lags by
// this many events the relay blocks instead of buffering further.
const streamChannelCapacity = 32

// StreamEvent is one decoded event of a streaming response, tagged by Type.
// The fields populated depend on the tag:
//
//   - message_start: Message
//   - content_block_start: Index, ContentBlock
//   - content_block_delta: Index, Delta
//   - content_block_stop: Index
//   - message_delta: MessageDelta, Usage
//   - message_stop: nothing
//
// Keepalive pings are filtered out by the relay and never appear on the
// channel. A terminal failure is delivered as a final event whose Err is
// non-nil; in every case the channel is closed afterward, so a close without
// a preceding Err means the stream ended cleanly.
type StreamEvent struct {
	Type string

	// Message carries the initial message metadata for message_start.
	Message *MessageStart

	// Index is the content block position for content_block_* events.
	Index int

	// ContentBlock is the opening block shape for content_block_start.
	ContentBlock *ContentBlock

	// Delta is the incremental update for content_block_delta.
	Delta *Delta

	// MessageDelta carries the stop reason for message_delta.
	MessageDelta *MessageDelta

	// Usage carries the token accounting for message_delta.
	Usage *Usage

	// Err is the fatal relay error, set only on the final event of a failed
	// stream.
	Err error
}

// MessageStart is the initial message metadata in a streaming response.
type MessageStart struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
	Usage   Usage          `json:"usage"`
}

// Delta type tags.
const (
	DeltaTypeText      = "text_delta"
	DeltaTypeInputJSON = "input_json_delta"
)

// Delta is an incremental content block update, tagged by Type: a text
// fragment (Text) or a fragment of the JSON value being built for a tool
// invocation (PartialJSON).
type Delta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// UnmarshalJSON decodes a delta. When the type tag is absent the variant is
// inferred from key presence: a "partial_json" key means an input JSON
// fragment, a "text" key means a text fragment.
func (d *Delta) UnmarshalJSON(data []byte) error {
	type plain Delta
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}
	if d.Type == "" {
		switch {
		case gjson.GetBytes(data, "partial_json").Exists():
			d.Type = DeltaTypeInputJSON
		case gjson.GetBytes(data, "text").Exists():
			d.Type = DeltaTypeText
		default:
			return fmt.Errorf("delta has neither a type tag nor a recognizable shape")
		}
	}
	return nil
}

// MessageDelta is the message-level delta carried by a message_delta event.
type MessageDelta struct {
	StopReason   string `json:"stop_reason,omitempty"`
	StopSequence string `json:"stop_sequence,omitempty"`
}

// StreamMessage sends a completion request in streaming mode and returns a
// channel of decoded events.
//
// The relay runs on its own goroutine and owns the connection. Events arrive
// in wire order with keepalive pings removed; the channel holds at most
// streamChannelCapacity undelivered events, after which the relay blocks
// until the consumer drains. The channel is closed when the stream ends —
// cleanly, on the first fatal error (delivered as a final event with Err
// set), or when ctx is cancelled. The stream is one-shot: nothing is retried
// and a broken stream cannot be resumed.
func (c *Client) StreamMessage(ctx context.Context, req *MessageRequest) (<-chan StreamEvent, error) {
	streaming := true
	r := *req
	r.Stream = &streaming

	httpReq, err := c.newRequest(ctx, http.MethodPost, "messages", nil, &r)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &RequestError{StatusCode: resp.StatusCode, Err: readErr}
		}
		if gjson.GetBytes(raw, "type").String() == "error" {
			return nil, decodeErrorEnvelope(raw, resp.StatusCode)
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: bodySnippet(raw)}
	}

	events := make(chan StreamEvent, streamChannelCapacity)
	go c.relay(ctx, resp.Body, events)
	return events, nil
}

// relay reads frames off the connection, decodes them, and forwards every
// non-keepalive event in arrival order. It terminates on clean end-of-stream,
// on the first connection or decode error, or when ctx is cancelled, and
// closes the channel in all cases.
func (c *Client) relay(ctx context.Context, body io.ReadCloser, events chan<- StreamEvent) {
	defer close(events)
	defer body.Close()

	frames := newSSEScanner(body)
	for {
		frame, err := frames.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			c.send(ctx, events, StreamEvent{Err: &RequestError{Err: err}})
			return
		}
		if frame.Data == nil {
			// Connection-lifecycle frame with no payload.
			continue
		}

		event, err := c.decodeStreamEvent(frame.Data)
		if err != nil {
			c.send(ctx, events, StreamEvent{Err: err})
			return
		}
		if event == nil || event.Type == EventPing {
			continue
		}
		if event.Err != nil {
			c.send(ctx, events, *event)
			return
		}
		if !c.send(ctx, events, *event) {
			return
		}
	}
}

// send delivers an event, blocking while the channel is full. It returns
// false when ctx is cancelled before the event could be delivered.
func (c *Client) send(ctx context.Context, events chan<- StreamEvent, event StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		select {
		case events <- StreamEvent{Err: ctx.Err()}:
		default:
		}
		return false
	}
}

// decodeStreamEvent parses one frame payload into a typed event. A nil event
// with a nil error means the frame should be skipped (unknown type under
// UnknownIgnore). A server error frame decodes into an event whose Err is
// the *APIError.
func (c *Client) decodeStreamEvent(data []byte) (*StreamEvent, error) {
	tag := gjson.GetBytes(data, "type").String()
	if tag == "" {
		if !gjson.ValidBytes(data) {
			return nil, &DecodeError{Raw: data, Err: fmt.Errorf("invalid JSON")}
		}
		return nil, &DecodeError{Raw: data, Err: fmt.Errorf("event is missing its type tag")}
	}

	event := &StreamEvent{Type: tag}
	switch tag {
	case EventPing, EventMessageStop:
		return event, nil

	case EventMessageStart:
		var payload struct {
			Message MessageStart `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		event.Message = &payload.Message

	case EventContentBlockStart:
		var payload struct {
			Index        int          `json:"index"`
			ContentBlock ContentBlock `json:"content_block"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		if err := c.checkBlockType(payload.ContentBlock.Type); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		event.Index = payload.Index
		event.ContentBlock = &payload.ContentBlock

	case EventContentBlockDelta:
		var payload struct {
			Index int   `json:"index"`
			Delta Delta `json:"delta"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		event.Index = payload.Index
		event.Delta = &payload.Delta

	case EventContentBlockStop:
		var payload struct {
			Index int `json:"index"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		event.Index = payload.Index

	case EventMessageDelta:
		var payload struct {
			Delta MessageDelta `json:"delta"`
			Usage Usage        `json:"usage"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &DecodeError{Raw: data, Err: err}
		}
		event.MessageDelta = &payload.Delta
		event.Usage = &payload.Usage

	case eventError:
		// Mid-stream server failure delivered as an event frame.
		event.Err = decodeErrorEnvelope(data, 0)

	default:
		if c.unknownPolicy == UnknownError {
			return nil, &DecodeError{Raw: data, Err: fmt.Errorf("event type %q: %w", tag, ErrUnknownEvent)}
		}
		return nil, nil
	}
	return event, nil
}
