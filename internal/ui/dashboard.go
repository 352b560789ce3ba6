package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/sentinelforge/sentinelforge/internal/aggregate"
	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/config"
	"github.com/sentinelforge/sentinelforge/internal/watch"
)

type tab int

const (
	tabRuns tab = iota
	tabFindings
	tabDrift
	tabCompliance
	tabSchedules
	tabHealth
	tabCount
)

var tabNames = [tabCount]string{"Runs", "Findings", "Drift", "Compliance", "Schedules", "Health"}

// pageData is one refresh cycle's snapshot of every page's backing
// collections. It is replaced wholesale on each refresh; stale data
// stays on screen while the next refresh is in flight.
type pageData struct {
	runs       []api.Run
	findings   []api.Finding
	baselines  []api.Baseline
	frameworks []api.Framework
	summary    *api.ComplianceSummary
	schedules  []api.Schedule
	health     *api.HealthStatus
}

type dataMsg struct {
	data pageData
	err  error
}

type tickMsg time.Time

type liveMsg watch.View

type watcherDoneMsg struct{}

// Dashboard is the tabbed terminal dashboard. One model drives all
// pages; the selected run on the Runs tab additionally gets a live
// progress watcher.
type Dashboard struct {
	client *api.Client
	cfg    *config.Config

	tab      tab
	spinner  spinner.Model
	width    int
	loading  bool
	err      error
	data     pageData
	hasData  bool
	selected int

	// drift follows the first baseline: no baseline, no request.
	drift *watch.Keyed[string, []api.DriftPoint]

	watcher  *watch.RunWatcher
	watchID  string
	liveView watch.View
	cancel   context.CancelFunc
	ctx      context.Context
}

// NewDashboard creates the dashboard model.
func NewDashboard(client *api.Client, cfg *config.Config) *Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	ctx, cancel := context.WithCancel(context.Background())
	return &Dashboard{
		client:  client,
		cfg:     cfg,
		spinner: sp,
		drift: watch.NewKeyed(
			func(ctx context.Context, baselineID string) ([]api.DriftPoint, error) {
				return client.DriftHistory(ctx, baselineID)
			},
			watch.FixedInterval[[]api.DriftPoint](cfg.Polling.Schedules),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	d.drift.Start(d.ctx)
	return tea.Batch(d.spinner.Tick, d.refreshCmd(), d.tickCmd())
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			d.teardown()
			return d, tea.Quit
		case "tab", "right", "l":
			d.tab = (d.tab + 1) % tabCount
			d.selected = 0
		case "shift+tab", "left", "h":
			d.tab = (d.tab + tabCount - 1) % tabCount
			d.selected = 0
		case "down", "j":
			d.selected++
			d.clampSelection()
			return d, d.syncWatcher()
		case "up", "k":
			if d.selected > 0 {
				d.selected--
			}
			return d, d.syncWatcher()
		case "r":
			d.loading = true
			return d, d.refreshCmd()
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width

	case dataMsg:
		d.loading = false
		if msg.err != nil {
			// Keep the previous data on screen; only flag the error.
			d.err = msg.err
		} else {
			d.err = nil
			d.data = msg.data
			d.hasData = true
			d.clampSelection()
			if len(msg.data.baselines) > 0 {
				d.drift.SetKey(msg.data.baselines[0].ID)
			} else {
				d.drift.ClearKey()
			}
		}
		return d, d.syncWatcher()

	case tickMsg:
		d.loading = true
		return d, tea.Batch(d.refreshCmd(), d.tickCmd())

	case liveMsg:
		d.liveView = watch.View(msg)
		if d.watcher != nil {
			return d, d.waitLive(d.watcher)
		}

	case watcherDoneMsg:
		// Final authoritative state is in liveView; one more list
		// refresh picks up findings counts.
		return d, d.refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	return d, nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("SentinelForge"))
	if d.loading {
		b.WriteString(" " + d.spinner.View())
	}
	b.WriteString("\n")

	var tabs []string
	for i := tab(0); i < tabCount; i++ {
		style := TabStyle
		if i == d.tab {
			style = ActiveTab
		}
		tabs = append(tabs, style.Render(tabNames[i]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if d.err != nil {
		b.WriteString(ErrStyle.Render("error: "+d.err.Error()) + "\n\n")
	}

	switch {
	case !d.hasData && d.loading:
		b.WriteString(DimStyle.Render("loading..."))
	case !d.hasData:
		b.WriteString(DimStyle.Render("no data"))
	default:
		b.WriteString(d.viewTab())
	}

	b.WriteString("\n\n")
	b.WriteString(DimStyle.Render("tab: switch  j/k: select  r: refresh  q: quit"))
	return b.String()
}

func (d *Dashboard) viewTab() string {
	switch d.tab {
	case tabRuns:
		return d.viewRuns()
	case tabFindings:
		return d.viewFindings()
	case tabDrift:
		return d.viewDrift()
	case tabCompliance:
		return d.viewCompliance()
	case tabSchedules:
		return d.viewSchedules()
	case tabHealth:
		return d.viewHealth()
	}
	return ""
}

func (d *Dashboard) viewRuns() string {
	if len(d.data.runs) == 0 {
		return DimStyle.Render("no runs yet")
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-12s %-10s %-22s %-10s %s", "RUN", "STATUS", "MODEL", "PROGRESS", "STARTED")))
	b.WriteString("\n")
	for i, run := range d.data.runs {
		status := run.Status
		progress := run.Progress
		if run.ID == d.watchID && d.liveView.Live != nil {
			status = d.liveView.Status()
			progress = d.liveView.Progress()
		}
		line := fmt.Sprintf("%-12s %-10s %-22s %-10s %s",
			truncate(run.ID, 12),
			StatusStyle(status).Render(string(status)),
			truncate(run.TargetModel, 22),
			Percent(progress),
			RelTime(run.StartedAt))
		if i == d.selected {
			line = SelectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if d.liveView.LiveConnected {
		b.WriteString("\n" + DimStyle.Render("live: ") + ProgressBar(d.liveView.Progress(), 30))
	}
	return b.String()
}

func (d *Dashboard) viewFindings() string {
	findings := d.data.findings
	if len(findings) == 0 {
		return DimStyle.Render("no findings")
	}
	counts := aggregate.SeverityCounts(findings)
	var b strings.Builder
	var parts []string
	for _, sev := range api.Severities {
		if n := counts[string(sev)]; n > 0 {
			parts = append(parts, SeverityStyle(sev).Render(fmt.Sprintf("%s:%d", sev, n)))
		}
	}
	if n := counts[aggregate.UnknownKey]; n > 0 {
		parts = append(parts, DimStyle.Render(fmt.Sprintf("unknown:%d", n)))
	}
	b.WriteString(strings.Join(parts, "  ") + "\n\n")

	for i, f := range findings {
		if i >= 20 {
			b.WriteString(DimStyle.Render(fmt.Sprintf("... and %d more", len(findings)-i)))
			break
		}
		b.WriteString(fmt.Sprintf("%s %-14s %s\n",
			SeverityStyle(f.Severity).Render(fmt.Sprintf("%-8s", f.Severity)),
			truncate(f.ToolName, 14),
			truncate(f.Title, 60)))
	}
	return b.String()
}

func (d *Dashboard) viewDrift() string {
	if len(d.data.baselines) == 0 {
		return DimStyle.Render("no baselines recorded")
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-22s %-10s %s", "MODEL", "SCORE", "RECORDED")) + "\n")
	for _, base := range d.data.baselines {
		b.WriteString(fmt.Sprintf("%-22s %-10.2f %s\n", truncate(base.Model, 22), base.Score, RelTime(base.CreatedAt)))
	}
	if points := d.drift.Snapshot().Value; len(points) > 0 {
		series := aggregate.TrendSeries(points, 24*time.Hour)
		delta := aggregate.TotalDelta(points)
		b.WriteString("\n" + HeaderStyle.Render("trend ") + fmt.Sprintf("(%d buckets, net %+.2f)\n", len(series), delta))
		for _, p := range series {
			b.WriteString(fmt.Sprintf("%s  avg %.2f  min %.2f  max %.2f\n",
				p.Bucket.Format("01-02"), p.Avg, p.Min, p.Max))
		}
	}
	return b.String()
}

func (d *Dashboard) viewCompliance() string {
	var b strings.Builder
	if d.data.summary != nil {
		b.WriteString("overall coverage: " + TitleStyle.Render(Percent(d.data.summary.OverallCoverage)) + "\n\n")
	}
	if len(d.data.frameworks) == 0 {
		b.WriteString(DimStyle.Render("no frameworks configured"))
		return b.String()
	}
	for _, fw := range d.data.frameworks {
		b.WriteString(fmt.Sprintf("%-28s %s %s (%d/%d controls)\n",
			truncate(fw.Name, 28),
			ProgressBar(fw.Coverage, 20),
			Percent(fw.Coverage),
			fw.CoveredControls, fw.TotalControls))
	}
	return b.String()
}

func (d *Dashboard) viewSchedules() string {
	if len(d.data.schedules) == 0 {
		return DimStyle.Render("no schedules")
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-20s %-16s %-8s %-12s %s", "NAME", "CRON", "ENABLED", "LAST RUN", "NEXT RUN")) + "\n")
	for _, s := range d.data.schedules {
		enabled := "yes"
		if !s.Enabled {
			enabled = DimStyle.Render("no")
		}
		b.WriteString(fmt.Sprintf("%-20s %-16s %-8s %-12s %s\n",
			truncate(s.Name, 20), s.Cron, enabled, RelTime(s.LastRunAt), RelTime(s.NextRunAt)))
	}
	return b.String()
}

func (d *Dashboard) viewHealth() string {
	if d.data.health == nil {
		return DimStyle.Render("health unknown")
	}
	var b strings.Builder
	b.WriteString("status: " + TitleStyle.Render(d.data.health.Status))
	if d.data.health.Version != "" {
		b.WriteString(DimStyle.Render("  v" + d.data.health.Version))
	}
	b.WriteString("\n")
	for name, state := range d.data.health.Components {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", name, state))
	}
	return b.String()
}

// refreshCmd fetches every page's data concurrently. One failing
// fetch fails the whole cycle; the previous snapshot stays rendered.
func (d *Dashboard) refreshCmd() tea.Cmd {
	client := d.client
	ctx := d.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, d.cfg.Server.Timeout)
		defer cancel()

		var data pageData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			runs, err := client.ListRuns(gctx)
			if err != nil {
				return err
			}
			data.runs = runs
			return nil
		})
		g.Go(func() error {
			baselines, err := client.ListBaselines(gctx)
			if err != nil {
				return err
			}
			data.baselines = baselines
			return nil
		})
		g.Go(func() error {
			frameworks, err := client.ListFrameworks(gctx)
			if err != nil {
				return err
			}
			data.frameworks = frameworks
			return nil
		})
		g.Go(func() error {
			summary, err := client.ComplianceSummary(gctx)
			if err != nil {
				return err
			}
			data.summary = summary
			return nil
		})
		g.Go(func() error {
			schedules, err := client.ListSchedules(gctx)
			if err != nil {
				return err
			}
			data.schedules = schedules
			return nil
		})
		g.Go(func() error {
			health, err := client.Health(gctx)
			if err != nil {
				return err
			}
			data.health = health
			return nil
		})
		if err := g.Wait(); err != nil {
			return dataMsg{err: err}
		}

		// Findings come from the newest settled run's detail, a
		// dependent fetch: no settled run, no request. Drift history
		// follows the baseline selection through the keyed poller.
		for _, run := range data.runs {
			if run.Status == api.StatusCompleted {
				detail, err := client.GetRun(ctx, run.ID)
				if err == nil {
					data.findings = detail.Findings
				}
				break
			}
		}

		return dataMsg{data: data}
	}
}

func (d *Dashboard) tickCmd() tea.Cmd {
	return tea.Tick(d.cfg.Polling.RunList, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// syncWatcher attaches a live watcher to the selected run when it is
// active, and tears the old one down when the selection moves or the
// run settles.
func (d *Dashboard) syncWatcher() tea.Cmd {
	if d.tab != tabRuns || d.selected >= len(d.data.runs) {
		return d.dropWatcher()
	}
	run := d.data.runs[d.selected]
	if run.Status.Terminal() {
		return d.dropWatcher()
	}
	if d.watcher != nil && d.watchID == run.ID {
		return nil
	}

	cmd := d.dropWatcher()
	w := watch.NewRunWatcher(d.client, run.ID, d.cfg.Polling.ActiveRun, newDiscardLogger())
	w.Start(d.ctx)
	d.watcher = w
	d.watchID = run.ID
	d.liveView = watch.View{}
	return tea.Batch(cmd, d.waitLive(w), d.waitDone(w))
}

func (d *Dashboard) dropWatcher() tea.Cmd {
	if d.watcher != nil {
		d.watcher.Close()
		d.watcher = nil
		d.watchID = ""
		d.liveView = watch.View{}
	}
	return nil
}

func (d *Dashboard) waitLive(w *watch.RunWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case view, ok := <-w.Updates():
			if !ok {
				return nil
			}
			return liveMsg(view)
		case <-w.Closed():
			// The watcher was dropped; don't strand this command.
			return nil
		}
	}
}

func (d *Dashboard) waitDone(w *watch.RunWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Done():
			return watcherDoneMsg{}
		case <-w.Closed():
			return nil
		}
	}
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (d *Dashboard) teardown() {
	d.dropWatcher()
	d.drift.Stop()
	d.cancel()
}

func (d *Dashboard) clampSelection() {
	max := 0
	if d.tab == tabRuns {
		max = len(d.data.runs) - 1
	}
	if max < 0 {
		max = 0
	}
	if d.selected > max {
		d.selected = max
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
