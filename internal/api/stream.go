package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/sentinelforge/sentinelforge/internal/sse"
)

// Snapshot is one live progress update pushed over the run stream. It
// is ephemeral: each event supersedes the previous one.
type Snapshot struct {
	Status   RunStatus `json:"status"`
	Progress float64   `json:"progress"`
}

// RunStream is a live progress subscription for one run.
//
// Snapshots are delivered on Snapshots() in send order. The channel is
// closed when the server sends a done event, on a transport error, or
// when Close is called. Transport errors are deliberately silent: the
// polling layer remains the fallback source of truth, so a lost stream
// degrades to polling rather than failing the caller.
type RunStream struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.Mutex
	connected bool
}

// StreamRun opens the SSE progress stream for a run. Callers must
// Close the stream on every exit path; Close is idempotent. Callers
// are also responsible for the connection gate: streams are only
// meaningful for runs that are still queued or running.
func (c *Client) StreamRun(ctx context.Context, runID string) (*RunStream, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/attacks/runs/"+url.PathEscape(runID)+"/stream", nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Streaming must not inherit the client-wide request timeout.
	transport := c.httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	streamClient := &http.Client{Transport: transport}

	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		if resp.StatusCode == http.StatusUnauthorized {
			// Same side effect as any other authenticated request: the
			// token is dead, drop it and tell the owner.
			if err := c.sessions.Clear(); err != nil {
				c.logger.Warn("clearing token after 401", "error", err)
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return nil, fmt.Errorf("stream %s: %w", runID, ErrUnauthorized)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: "stream rejected"}
	}

	s := &RunStream{
		snapshots: make(chan Snapshot, 16),
		cancel:    cancel,
		connected: true,
	}

	go func() {
		defer resp.Body.Close()
		defer s.Close()

		scanner := sse.NewScanner(resp.Body)
		for {
			ev, err := scanner.Next()
			if err != nil {
				// Transport error or EOF: silent degradation.
				return
			}

			switch ev.Name {
			case "progress":
				if snap, ok := decodeSnapshot(ev.Data); ok {
					s.emit(snap)
				}
				// Malformed payloads are dropped; the previous
				// snapshot stays in effect.
			case "done":
				if snap, ok := decodeSnapshot(ev.Data); ok {
					s.emit(snap)
				}
				return
			case "error":
				return
			}
		}
	}()

	return s, nil
}

// Snapshots returns the ordered snapshot channel. It is closed when
// the stream ends for any reason.
func (s *RunStream) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Connected reports whether the stream is still live.
func (s *RunStream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close tears down the stream. Safe to call from any goroutine, any
// number of times.
func (s *RunStream) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		s.cancel()
		close(s.snapshots)
	})
}

// emit delivers a snapshot unless the stream is already closed. A slow
// consumer drops the oldest buffered snapshot: only the latest state
// matters.
func (s *RunStream) emit(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	for {
		select {
		case s.snapshots <- snap:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

func decodeSnapshot(data string) (Snapshot, bool) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Snapshot{}, false
	}
	if snap.Status == "" {
		return Snapshot{}, false
	}
	return snap, true
}
