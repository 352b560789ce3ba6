package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Generate and download reports",
	}
	cmd.AddCommand(
		newReportsListCmd(),
		newReportsGenerateCmd(),
		newReportsDownloadCmd(),
	)
	return cmd
}

func newReportsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			reports, err := client.ListReports(cmd.Context())
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println("no reports")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "TITLE", "FORMAT", "STATUS", "CREATED"})
			for _, r := range reports {
				t.AppendRow(table.Row{r.ID, r.Title, r.Format, r.Status, ui.RelTime(r.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

func newReportsGenerateCmd() *cobra.Command {
	var runID, format, title string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report for a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			report, err := client.GenerateReport(cmd.Context(), api.GenerateReportRequest{
				RunID:  runID,
				Format: format,
				Title:  title,
			})
			if err != nil {
				return err
			}
			fmt.Printf("report %s queued (%s)\n", report.ID, report.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run id")
	cmd.Flags().StringVar(&format, "format", "pdf", "report format")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func newReportsDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <report-id>",
		Short: "Download a report's binary payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			data, contentType, err := client.DownloadReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + ".pdf"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("wrote %s (%d bytes, %s)\n", output, len(data), contentType)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}
