package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentinelforge/sentinelforge/internal/session"
)

// sseHandler writes the given frames to the stream, flushing after each.
func sseHandler(t *testing.T, frames ...string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
	}
}

func collect(t *testing.T, s *RunStream) []Snapshot {
	t.Helper()
	var snaps []Snapshot
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-s.Snapshots():
			if !ok {
				return snaps
			}
			snaps = append(snaps, snap)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestStreamRun_ProgressThenDone(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.25}\n\n",
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.75}\n\n",
		"event: done\ndata: {\"status\":\"completed\",\"progress\":1}\n\n",
	))
	defer srv.Close()

	client := NewClient(srv.URL, session.NewMemStore("tok"))
	stream, err := client.StreamRun(context.Background(), "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	snaps := collect(t, stream)
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want 3 (%v)", len(snaps), snaps)
	}
	last := snaps[len(snaps)-1]
	if last.Status != StatusCompleted || last.Progress != 1 {
		t.Errorf("final snapshot = %+v", last)
	}
}

func TestStreamRun_MalformedPayloadDropped(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		"event: progress\ndata: {not json}\n\n",
		"event: progress\ndata: {\"progress\":0.5}\n\n", // no status
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.5}\n\n",
		"event: done\ndata: {\"status\":\"completed\",\"progress\":1}\n\n",
	))
	defer srv.Close()

	client := NewClient(srv.URL, session.NewMemStore("tok"))
	stream, err := client.StreamRun(context.Background(), "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	snaps := collect(t, stream)
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2 valid ones (%v)", len(snaps), snaps)
	}
}

func TestStreamRun_ErrorEventEndsStream(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.1}\n\n",
		"event: error\ndata: {\"message\":\"worker crashed\"}\n\n",
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.9}\n\n",
	))
	defer srv.Close()

	client := NewClient(srv.URL, session.NewMemStore("tok"))
	stream, err := client.StreamRun(context.Background(), "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	snaps := collect(t, stream)
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1 before the error event", len(snaps))
	}
}

func TestStreamRun_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemStore("stale")
	hookFired := false
	client := NewClient(srv.URL, store, WithUnauthorizedHook(func() { hookFired = true }))

	_, err := client.StreamRun(context.Background(), "run-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
	if store.Token() != "" {
		t.Error("token should be cleared after 401 on stream open")
	}
	if !hookFired {
		t.Error("unauthorized hook should fire after 401 on stream open")
	}
}

func TestStreamRun_BearerHeader(t *testing.T) {
	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, session.NewMemStore("tok-abc"))
	stream, err := client.StreamRun(context.Background(), "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if auth := <-gotAuth; auth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestRunStream_CloseIdempotent(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		"event: progress\ndata: {\"status\":\"running\",\"progress\":0.5}\n\n",
	))
	defer srv.Close()

	client := NewClient(srv.URL, session.NewMemStore("tok"))
	stream, err := client.StreamRun(context.Background(), "run-1")
	if err != nil {
		t.Fatal(err)
	}

	// Second and third Close must not panic on the closed channel.
	stream.Close()
	stream.Close()
	stream.Close()

	if stream.Connected() {
		t.Error("stream should report disconnected after Close")
	}
}
