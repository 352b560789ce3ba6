package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRun(w http.ResponseWriter, run api.Run) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

func TestRunWatcher_SettlesAfterFinalRefetch(t *testing.T) {
	var polls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/attacks/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 1 {
			writeRun(w, api.Run{ID: "run-1", Status: api.StatusRunning, Progress: 0.3})
			return
		}
		writeRun(w, api.Run{
			ID:       "run-1",
			Status:   api.StatusCompleted,
			Progress: 1,
			Findings: []api.Finding{{ID: "f-1", Title: "prompt injection", Severity: api.SeverityHigh}},
		})
	})
	mux.HandleFunc("/attacks/runs/run-1/stream", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "event: progress\ndata: {\"status\":\"running\",\"progress\":0.6}\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: done\ndata: {\"status\":\"completed\",\"progress\":1}\n\n")
		flusher.Flush()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemStore("tok"))
	w := NewRunWatcher(client, "run-1", 50*time.Millisecond, discardLogger())
	w.Start(context.Background())
	defer w.Close()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never settled")
	}

	view := w.View()
	assert.True(t, view.Settled)
	require.NotNil(t, view.Run)
	assert.Equal(t, api.StatusCompleted, view.Run.Status)
	assert.Len(t, view.Run.Findings, 1, "final re-fetch must carry the findings")
}

func TestRunWatcher_TerminalRunNeverStreams(t *testing.T) {
	var streamHit atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/attacks/runs/run-2", func(w http.ResponseWriter, r *http.Request) {
		writeRun(w, api.Run{ID: "run-2", Status: api.StatusFailed, ErrorMessage: "target unreachable"})
	})
	mux.HandleFunc("/attacks/runs/run-2/stream", func(w http.ResponseWriter, r *http.Request) {
		streamHit.Store(true)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemStore("tok"))
	w := NewRunWatcher(client, "run-2", 50*time.Millisecond, discardLogger())
	w.Start(context.Background())
	defer w.Close()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never settled")
	}

	assert.False(t, streamHit.Load(), "terminal runs must not open a stream")
	view := w.View()
	assert.True(t, view.Settled)
	assert.Equal(t, api.StatusFailed, view.Status())
}

func TestRunWatcher_StreamFailureDegradesToPolling(t *testing.T) {
	var polls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/attacks/runs/run-3", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			writeRun(w, api.Run{ID: "run-3", Status: api.StatusRunning, Progress: 0.5})
			return
		}
		writeRun(w, api.Run{ID: "run-3", Status: api.StatusCompleted, Progress: 1})
	})
	mux.HandleFunc("/attacks/runs/run-3/stream", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemStore("tok"))
	w := NewRunWatcher(client, "run-3", 30*time.Millisecond, discardLogger())
	w.Start(context.Background())
	defer w.Close()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("polling alone should still settle the watcher")
	}
	assert.Equal(t, api.StatusCompleted, w.View().Status())
}

func TestRunWatcher_CloseIdempotent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/attacks/runs/run-4", func(w http.ResponseWriter, r *http.Request) {
		writeRun(w, api.Run{ID: "run-4", Status: api.StatusRunning, Progress: 0.1})
	})
	mux.HandleFunc("/attacks/runs/run-4/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemStore("tok"))
	w := NewRunWatcher(client, "run-4", 50*time.Millisecond, discardLogger())
	w.Start(context.Background())

	w.Close()
	w.Close()

	select {
	case <-w.Closed():
	case <-time.After(time.Second):
		t.Fatal("Closed channel should be closed after Close")
	}
}

func TestView_LiveOverlay(t *testing.T) {
	run := &api.Run{Status: api.StatusRunning, Progress: 0.2}

	v := View{Run: run}
	assert.Equal(t, api.StatusRunning, v.Status())
	assert.Equal(t, 0.2, v.Progress())

	v.Live = &api.Snapshot{Status: api.StatusRunning, Progress: 0.7}
	assert.Equal(t, 0.7, v.Progress(), "live snapshot wins over the polled resource")

	v.Live = &api.Snapshot{Status: api.StatusCompleted, Progress: 1}
	assert.Equal(t, api.StatusCompleted, v.Status())
}

func TestView_Empty(t *testing.T) {
	var v View
	assert.Equal(t, api.RunStatus(""), v.Status())
	assert.Equal(t, 0.0, v.Progress())
}
