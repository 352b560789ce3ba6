package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/aggregate"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newDriftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Track model safety drift against recorded baselines",
	}
	cmd.AddCommand(newDriftBaselinesCmd(), newDriftHistoryCmd())
	return cmd
}

func newDriftBaselinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "baselines",
		Short: "List drift baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			baselines, err := client.ListBaselines(cmd.Context())
			if err != nil {
				return err
			}
			if len(baselines) == 0 {
				fmt.Println("no baselines")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "MODEL", "SCORE", "RECORDED"})
			for _, b := range baselines {
				t.AppendRow(table.Row{b.ID, b.Model, fmt.Sprintf("%.2f", b.Score), ui.RelTime(b.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

func newDriftHistoryCmd() *cobra.Command {
	var bucket time.Duration

	cmd := &cobra.Command{
		Use:   "history <baseline-id>",
		Short: "Show the bucketed drift trend for a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			points, err := client.DriftHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(points) == 0 {
				fmt.Println("no measurements")
				return nil
			}

			series := aggregate.TrendSeries(points, bucket)
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"BUCKET", "AVG", "MIN", "MAX", "SAMPLES"})
			for _, p := range series {
				t.AppendRow(table.Row{
					p.Bucket.Format("2006-01-02"),
					fmt.Sprintf("%.2f", p.Avg),
					fmt.Sprintf("%.2f", p.Min),
					fmt.Sprintf("%.2f", p.Max),
					p.Count,
				})
			}
			t.Render()

			fmt.Printf("net drift: %+.2f over %d measurements\n", aggregate.TotalDelta(points), len(points))
			return nil
		},
	}

	cmd.Flags().DurationVar(&bucket, "bucket", 24*time.Hour, "trend bucket size")
	return cmd
}
