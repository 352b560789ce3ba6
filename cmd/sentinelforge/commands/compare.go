package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/aggregate"
	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run and inspect multi-model comparisons",
	}
	cmd.AddCommand(
		newCompareRunCmd(),
		newCompareListCmd(),
		newCompareShowCmd(),
	)
	return cmd
}

func newCompareRunCmd() *cobra.Command {
	var name, scenarioID string
	var models []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch a comparison across models",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			if len(models) < 2 {
				return fmt.Errorf("need at least two --model values")
			}
			cmp, err := client.Compare(cmd.Context(), api.CompareRequest{
				Name:       name,
				ScenarioID: scenarioID,
				Models:     models,
			})
			if err != nil {
				return err
			}
			fmt.Printf("comparison %s started\n", cmp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "comparison name")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id")
	cmd.Flags().StringArrayVarP(&models, "model", "m", nil, "model to include (repeatable)")
	return cmd
}

func newCompareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past comparisons",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			cmps, err := client.ListComparisons(cmd.Context())
			if err != nil {
				return err
			}
			if len(cmps) == 0 {
				fmt.Println("no comparisons")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "NAME", "MODELS", "STATUS", "CREATED"})
			for _, c := range cmps {
				t.AppendRow(table.Row{c.ID, c.Name, len(c.Models), string(c.Status), ui.RelTime(c.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

func newCompareShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <comparison-id>",
		Short: "Show a comparison scorecard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			detail, err := client.GetComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			best := aggregate.Best(detail.Scorecards)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"", "MODEL", "PASS RATE", "FINDINGS", "CRITICAL"})
			for i, row := range detail.Scorecards {
				marker := ""
				if i == best {
					marker = "★"
				}
				rate := "-"
				if row.PassRate != nil {
					rate = ui.Percent(*row.PassRate)
				}
				t.AppendRow(table.Row{marker, row.Model, rate, row.FindingsCount, row.CriticalCount})
			}
			t.Render()

			if best >= 0 {
				fmt.Printf("best: %s\n", detail.Scorecards[best].Model)
			}
			return nil
		},
	}
}
