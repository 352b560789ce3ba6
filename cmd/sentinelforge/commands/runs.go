package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/aggregate"
	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/config"
	"github.com/sentinelforge/sentinelforge/internal/ui"
	"github.com/sentinelforge/sentinelforge/internal/watch"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, launch, and watch attack runs",
	}

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsShowCmd(),
		newRunsLaunchCmd(),
		newRunsWatchCmd(),
		newRunsFindingsCmd(),
	)
	return cmd
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List attack runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			runs, err := client.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "STATUS", "MODEL", "PROGRESS", "STARTED", "FINDINGS"})
			for _, run := range runs {
				t.AppendRow(table.Row{
					run.ID,
					ui.StatusSprint(run.Status),
					run.TargetModel,
					ui.Percent(run.Progress),
					ui.RelTime(run.StartedAt),
					len(run.Findings),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show run detail, findings, and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			run, err := client.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRun(run)
			return nil
		},
	}
}

func printRun(run *api.Run) {
	fmt.Println()
	fmt.Printf("  Run:       %s\n", run.ID)
	fmt.Printf("  Status:    %s\n", ui.StatusSprint(run.Status))
	fmt.Printf("  Model:     %s\n", run.TargetModel)
	fmt.Printf("  Progress:  %s %s\n", ui.ProgressBar(run.Progress, 20), ui.Percent(run.Progress))
	if run.ErrorMessage != "" {
		fmt.Printf("  Error:     %s\n", run.ErrorMessage)
	}
	if !run.StartedAt.IsZero() {
		fmt.Printf("  Started:   %s\n", ui.RelTime(run.StartedAt))
	}

	if results, err := run.Results(); err == nil && results != nil {
		printResults(results)
	}

	if len(run.Findings) > 0 {
		counts := aggregate.SeverityCounts(run.Findings)
		fmt.Printf("\n  Findings (%d):", len(run.Findings))
		for _, sev := range api.Severities {
			if n := counts[string(sev)]; n > 0 {
				fmt.Printf("  %s %d", ui.SeveritySprint(sev), n)
			}
		}
		fmt.Println()
		for _, f := range run.Findings {
			fmt.Printf("    [%s] %s", ui.SeveritySprint(f.Severity), f.Title)
			if f.ToolName != "" {
				fmt.Printf(" (%s)", f.ToolName)
			}
			fmt.Println()
		}
	}
	fmt.Println()
}

func printResults(results *api.RunResults) {
	fmt.Println()
	switch results.Kind {
	case api.ResultAttack:
		r := results.Attack
		fmt.Printf("  Prompts:   %d (%d blocked, %d succeeded)\n", r.TotalPrompts, r.Blocked, r.Succeeded)
		fmt.Printf("  Pass rate: %s\n", ui.Percent(r.PassRate))
	case api.ResultFingerprint:
		r := results.Fingerprint
		fmt.Printf("  Family:     %s (%s confidence)\n", r.Family, ui.Percent(r.Confidence))
	case api.ResultRAGEval:
		r := results.RAGEval
		fmt.Printf("  Groundedness: %.2f  Relevance: %.2f  Leak rate: %s\n", r.Groundedness, r.Relevance, ui.Percent(r.LeakRate))
	case api.ResultMultimodal:
		r := results.Multimodal
		fmt.Printf("  Attacks:    %d image, %d audio (bypass %s)\n", r.ImageAttacks, r.AudioAttacks, ui.Percent(r.BypassRate))
	case api.ResultToolEval:
		r := results.ToolEval
		fmt.Printf("  Tool calls: %d (%d unsafe)\n", r.ToolCalls, r.UnsafeCalls)
	case api.ResultCalibration:
		r := results.Calibration
		fmt.Printf("  Agreement:  %s\n", ui.Percent(r.AgreementRate))
	}
}

func newRunsLaunchCmd() *cobra.Command {
	var scenarioID, model string
	var follow bool

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a new attack run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup()
			if err != nil {
				return err
			}
			id, err := client.LaunchRun(cmd.Context(), api.LaunchRequest{
				ScenarioID:  scenarioID,
				TargetModel: model,
			})
			if err != nil {
				return err
			}
			fmt.Printf("launched run %s\n", id)
			if follow {
				return watchRun(cmd, client, cfg, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id")
	cmd.Flags().StringVarP(&model, "model", "m", "", "target model")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "watch progress until the run settles")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func newRunsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <run-id>",
		Short: "Watch live run progress until it settles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup()
			if err != nil {
				return err
			}
			return watchRun(cmd, client, cfg, args[0])
		},
	}
}

// watchRun streams reconciled progress to the terminal. Live SSE
// snapshots win over polled values; when the stream is unavailable the
// poller alone drives the display.
func watchRun(cmd *cobra.Command, client *api.Client, cfg *config.Config, id string) error {
	watcher := watch.NewRunWatcher(client, id, cfg.Polling.ActiveRun, newLogger(cfg))
	watcher.Start(cmd.Context())
	defer watcher.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case view, ok := <-watcher.Updates():
			if !ok {
				return nil
			}
			live := ""
			if view.LiveConnected {
				live = " (live)"
			}
			fmt.Printf("\r%s %s %s%s    ",
				ui.StatusSprint(view.Status()),
				ui.ProgressBar(view.Progress(), 30),
				ui.Percent(view.Progress()),
				live)
			if view.Settled {
				fmt.Println()
				if view.Run != nil {
					printRun(view.Run)
				}
				return nil
			}
		}
	}
}

func newRunsFindingsCmd() *cobra.Command {
	var severity, tool, technique, search string

	cmd := &cobra.Command{
		Use:   "findings <run-id>",
		Short: "Explore a run's findings with filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			run, err := client.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			filter := aggregate.FindingFilter{
				Severity:  api.Severity(severity),
				Tool:      tool,
				Technique: technique,
				Search:    search,
			}
			matched := aggregate.FilterFindings(run.Findings, filter)

			if len(matched) == 0 {
				fmt.Printf("no findings match (%d total)\n", len(run.Findings))
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"SEVERITY", "TOOL", "TECHNIQUE", "TITLE"})
			for _, f := range matched {
				t.AppendRow(table.Row{ui.SeveritySprint(f.Severity), f.ToolName, f.MitreTechnique, f.Title})
			}
			t.Render()

			fmt.Printf("%d of %d findings", len(matched), len(run.Findings))
			if tools := aggregate.Tools(run.Findings); len(tools) > 0 {
				fmt.Printf("  (tools: %v)", tools)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&tool, "tool", "", "filter by tool name")
	cmd.Flags().StringVar(&technique, "technique", "", "filter by MITRE technique")
	cmd.Flags().StringVar(&search, "search", "", "substring match on title/description")
	return cmd
}
