package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

// View is the reconciled state of one watched run. The live snapshot,
// when present, is fresher than the polled resource and wins for
// status and progress; everything else (findings, results, error
// message) only exists on the polled Run.
type View struct {
	Run           *api.Run
	Live          *api.Snapshot
	LiveConnected bool
	Err           error

	// Settled means the run reached a terminal state and the final
	// authoritative re-fetch has completed, so findings and results
	// are as complete as the backend will make them.
	Settled bool
}

// Status returns the reconciled status, preferring the live snapshot.
func (v View) Status() api.RunStatus {
	if v.Live != nil {
		return v.Live.Status
	}
	if v.Run != nil {
		return v.Run.Status
	}
	return ""
}

// Progress returns the reconciled progress in [0,1].
func (v View) Progress() float64 {
	if v.Live != nil {
		return v.Live.Progress
	}
	if v.Run != nil {
		return v.Run.Progress
	}
	return 0
}

// RunWatcher tracks a single run to completion. It polls the run detail
// at the active interval while the run is queued or running, stops
// polling once terminal, and overlays live SSE snapshots when the
// stream is available. A lost stream degrades silently to polling.
//
// A watcher is bound to one run id for its whole life. Watching a
// different run means creating a new watcher, which by construction
// discards all snapshot state from the previous connection.
type RunWatcher struct {
	client   *api.Client
	runID    string
	interval time.Duration
	logger   *slog.Logger

	poller *Poller[*api.Run]

	mu           sync.Mutex
	stream       *api.RunStream
	streamOpened bool
	live         *api.Snapshot
	liveUp       bool
	settled      bool
	finalizing   bool

	updates   chan View
	done      chan struct{}
	closed    chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewRunWatcher creates a watcher for the given run id. activeInterval
// is the poll rate while the run is queued or running; polling is
// suppressed entirely once the run is terminal.
func NewRunWatcher(client *api.Client, runID string, activeInterval time.Duration, logger *slog.Logger) *RunWatcher {
	w := &RunWatcher{
		client:   client,
		runID:    runID,
		interval: activeInterval,
		logger:   logger,
		updates:  make(chan View, 16),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
	w.poller = NewPoller(
		func(ctx context.Context) (*api.Run, error) {
			return client.GetRun(ctx, runID)
		},
		func(run *api.Run, err error) time.Duration {
			if run != nil && run.Status.Terminal() {
				return 0
			}
			return activeInterval
		},
	)
	return w
}

// Start begins polling and, once the run is confirmed active, opens
// the live stream.
func (w *RunWatcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.poller.Start(ctx)
	go w.reconcile(ctx)
}

// Updates returns reconciled view changes. Slow consumers skip
// intermediate states.
func (w *RunWatcher) Updates() <-chan View {
	return w.updates
}

// Done is closed when the run has settled.
func (w *RunWatcher) Done() <-chan struct{} {
	return w.done
}

// Closed is closed when the watcher is torn down, settled or not.
func (w *RunWatcher) Closed() <-chan struct{} {
	return w.closed
}

// View returns the current reconciled state.
func (w *RunWatcher) View() View {
	entry := w.poller.Snapshot()
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Run:           entry.Value,
		Live:          w.live,
		LiveConnected: w.liveUp,
		Err:           entry.Err,
		Settled:       w.settled,
	}
}

// Close tears down the poller and the stream. Idempotent; safe on
// every exit path.
func (w *RunWatcher) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		stream := w.stream
		w.mu.Unlock()
		if stream != nil {
			stream.Close()
		}
		w.poller.Stop()
		if w.cancel != nil {
			w.cancel()
		}
		close(w.closed)
	})
}

func (w *RunWatcher) reconcile(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-w.poller.Updates():
			if !ok {
				return
			}
			w.onPoll(ctx, entry)
		}
	}
}

// onPoll processes one cache-entry change from the run poller.
func (w *RunWatcher) onPoll(ctx context.Context, entry Entry[*api.Run]) {
	run := entry.Value

	if run != nil && !run.Status.Terminal() {
		w.openStreamOnce(ctx)
	}

	w.mu.Lock()
	if run != nil && run.Status.Terminal() {
		// The poll is the authoritative read. If a final re-fetch was
		// pending after a terminal live snapshot, this completes it.
		if !w.settled && !entry.Loading {
			w.settled = true
			close(w.done)
		}
		stream := w.stream
		w.stream = nil
		w.mu.Unlock()
		if stream != nil {
			stream.Close()
		}
	} else {
		w.mu.Unlock()
	}

	w.publish()
}

// openStreamOnce opens the live stream the first time the run is seen
// in a non-terminal state. Terminal runs never get a stream.
func (w *RunWatcher) openStreamOnce(ctx context.Context) {
	w.mu.Lock()
	if w.streamOpened {
		w.mu.Unlock()
		return
	}
	w.streamOpened = true
	w.mu.Unlock()

	stream, err := w.client.StreamRun(ctx, w.runID)
	if err != nil {
		// Live updates unavailable; polling carries on.
		w.logger.Debug("run stream unavailable", "run", w.runID, "error", err)
		return
	}

	w.mu.Lock()
	w.stream = stream
	w.liveUp = true
	w.mu.Unlock()
	w.publish()

	go w.consumeStream(stream)
}

func (w *RunWatcher) consumeStream(stream *api.RunStream) {
	for snap := range stream.Snapshots() {
		snap := snap
		w.mu.Lock()
		w.live = &snap
		terminal := snap.Status.Terminal()
		alreadyFinalizing := w.finalizing
		if terminal {
			w.finalizing = true
		}
		w.mu.Unlock()
		w.publish()

		if terminal && !alreadyFinalizing {
			// The stream only carries status and progress. Re-fetch
			// the full resource once so findings and results are
			// present before the run is reported settled.
			stream.Close()
			w.poller.Refresh()
		}
	}

	w.mu.Lock()
	w.liveUp = false
	w.mu.Unlock()
	w.publish()
}

func (w *RunWatcher) publish() {
	view := w.View()
	for {
		select {
		case w.updates <- view:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}
