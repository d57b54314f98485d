package anthropic

import (
	"bufio"
	"bytes"
	"io"
)

// sseFrame is one server-sent-event frame: an optional event name and the
// joined data payload. A frame with no data lines (comment-only, or a bare
// event name) has a nil Data.
type sseFrame struct {
	Event string
	Data  []byte
}

// sseScanner reads frames off a server-sent-event stream. Frames are
// separated by blank lines; "data:" lines within a frame are joined with a
// newline per the SSE specification. Comment lines (leading ':') are
// dropped.
type sseScanner struct {
	scanner *bufio.Scanner
	done    bool
}

func newSSEScanner(r io.Reader) *sseScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseScanner{scanner: s}
}

// Next returns the next frame, or io.EOF when the stream ends cleanly after
// the final frame. Any other error is a connection-level failure.
func (s *sseScanner) Next() (sseFrame, error) {
	if s.done {
		return sseFrame{}, io.EOF
	}

	var frame sseFrame
	var data [][]byte
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		switch {
		case len(line) == 0:
			if frame.Event != "" || data != nil {
				if data != nil {
					frame.Data = bytes.Join(data, []byte("\n"))
				}
				return frame, nil
			}
			// Blank line between frames, keep scanning.
		case line[0] == ':':
			// Comment line.
		case bytes.HasPrefix(line, []byte("event:")):
			frame.Event = string(trimFieldValue(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, append([]byte(nil), trimFieldValue(line[len("data:"):])...))
		}
		// Other field names (id, retry) are not used by this protocol.
	}
	if err := s.scanner.Err(); err != nil {
		return sseFrame{}, err
	}

	s.done = true
	if frame.Event != "" || data != nil {
		// Stream closed mid-frame; deliver what arrived.
		if data != nil {
			frame.Data = bytes.Join(data, []byte("\n"))
		}
		return frame, nil
	}
	return sseFrame{}, io.EOF
}

func trimFieldValue(v []byte) []byte {
	if len(v) > 0 && v[0] == ' ' {
		return v[1:]
	}
	return v
}
