package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/config"
	"github.com/sentinelforge/sentinelforge/internal/session"
	"github.com/sentinelforge/sentinelforge/internal/watch"
)

func TestDashboard_DriftFollowsBaseline(t *testing.T) {
	requested := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drift/history/base-1" {
			http.NotFound(w, r)
			return
		}
		requested <- r.URL.Path
		json.NewEncoder(w).Encode([]api.DriftPoint{
			{ID: "p1", BaselineID: "base-1", Score: 0.8},
			{ID: "p2", BaselineID: "base-1", Score: 0.7},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemStore("tok"))
	d := NewDashboard(client, config.Defaults())
	d.Init()
	defer d.teardown()

	// Selecting a baseline starts the dependent history poll.
	d.Update(dataMsg{data: pageData{baselines: []api.Baseline{{ID: "base-1", Model: "gpt-x"}}}})

	require.Eventually(t, func() bool {
		return len(d.drift.Snapshot().Value) == 2
	}, 5*time.Second, 10*time.Millisecond, "drift history should be fetched for the selected baseline")

	select {
	case path := <-requested:
		assert.Equal(t, "/drift/history/base-1", path)
	default:
		t.Fatal("no drift history request recorded")
	}

	// With no baselines there is nothing to follow; the entry empties
	// out and no further requests are issued.
	d.Update(dataMsg{data: pageData{}})
	require.Eventually(t, func() bool {
		return len(d.drift.Snapshot().Value) == 0
	}, 5*time.Second, 10*time.Millisecond, "clearing the baseline should drop the drift entry")
}

func TestDashboard_WaitLiveReturnsAfterWatcherClose(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:0", session.NewMemStore(""))
	d := NewDashboard(client, config.Defaults())
	defer d.teardown()

	w := watch.NewRunWatcher(client, "run-1", time.Second, newDiscardLogger())
	w.Close()

	done := make(chan struct{})
	go func() {
		d.waitLive(w)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waitLive should return once the watcher is closed")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter passes through", "run-1", 12, "run-1"},
		{"ascii trimmed", "abcdefgh", 5, "abcd…"},
		{"multibyte trimmed on rune boundary", "日本語のテキスト", 5, "日本語の…"},
		{"width one keeps first rune", "日本語", 1, "日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}
}
