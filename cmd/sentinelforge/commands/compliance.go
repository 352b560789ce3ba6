package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newComplianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Compliance framework coverage and reports",
	}
	cmd.AddCommand(
		newComplianceFrameworksCmd(),
		newComplianceSummaryCmd(),
		newComplianceReportCmd(),
	)
	return cmd
}

func newComplianceFrameworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List frameworks with coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			frameworks, err := client.ListFrameworks(cmd.Context())
			if err != nil {
				return err
			}
			if len(frameworks) == 0 {
				fmt.Println("no frameworks")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"NAME", "COVERAGE", "CONTROLS"})
			for _, fw := range frameworks {
				t.AppendRow(table.Row{
					fw.Name,
					fmt.Sprintf("%s %s", ui.ProgressBar(fw.Coverage, 16), ui.Percent(fw.Coverage)),
					fmt.Sprintf("%d/%d", fw.CoveredControls, fw.TotalControls),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newComplianceSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show overall coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			summary, err := client.ComplianceSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("overall coverage: %s\n", ui.Percent(summary.OverallCoverage))
			for name, coverage := range summary.ByFramework {
				fmt.Printf("  %-28s %s\n", name, ui.Percent(coverage))
			}
			return nil
		},
	}
}

func newComplianceReportCmd() *cobra.Command {
	var framework, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and download a compliance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			data, contentType, err := client.ComplianceReport(cmd.Context(), framework)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("wrote %s (%d bytes, %s)\n", output, len(data), contentType)
			return nil
		},
	}

	cmd.Flags().StringVar(&framework, "framework", "", "framework id")
	cmd.Flags().StringVarP(&output, "output", "o", "compliance-report.pdf", "output file")
	_ = cmd.MarkFlagRequired("framework")
	return cmd
}
