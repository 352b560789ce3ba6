// Package sse parses server-sent-event streams.
//
// It implements the subset of the SSE wire format the SentinelForge
// backend emits: named events with JSON data lines. Comment lines and
// unknown fields are skipped; multi-line data is joined with newlines,
// per the EventSource framing rules.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event is one dispatched server-sent event.
type Event struct {
	Name string
	Data string
}

// Scanner reads events from an SSE byte stream.
type Scanner struct {
	scanner *bufio.Scanner
}

// NewScanner wraps a reader carrying text/event-stream data.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{scanner: sc}
}

// Next blocks until a complete event is read. It returns io.EOF when
// the stream ends, or the underlying read error.
func (s *Scanner) Next() (Event, error) {
	var (
		name     string
		data     []string
		haveData bool
	)

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Blank line dispatches the accumulated event.
		if line == "" {
			if haveData {
				if name == "" {
					name = "message"
				}
				return Event{Name: name, Data: strings.Join(data, "\n")}, nil
			}
			// Empty dispatch (e.g. keep-alive comment followed by a
			// blank line): keep reading.
			name = ""
			data = nil
			continue
		}

		// Comment / keep-alive.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
			haveData = true
		}
		// id and retry fields are not used by this client.
	}

	if err := s.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
