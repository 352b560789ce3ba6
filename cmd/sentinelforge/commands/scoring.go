package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newScoringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoring",
		Short: "Manage scoring rubrics and calibration",
	}
	cmd.AddCommand(
		newRubricsCmd(),
		newCalibrateCmd(),
		newCalibrationsCmd(),
	)
	return cmd
}

func newRubricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubrics",
		Short: "Manage scoring rubrics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rubrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			rubrics, err := client.ListRubrics(cmd.Context())
			if err != nil {
				return err
			}
			if len(rubrics) == 0 {
				fmt.Println("no rubrics")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "NAME", "THRESHOLD"})
			for _, r := range rubrics {
				t.AppendRow(table.Row{r.ID, r.Name, fmt.Sprintf("%.2f", r.Threshold)})
			}
			t.Render()
			return nil
		},
	})

	var name string
	var threshold float64
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			created, err := client.CreateRubric(cmd.Context(), api.Rubric{
				Name:      name,
				Threshold: threshold,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created rubric %s\n", created.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "rubric name")
	create.Flags().Float64Var(&threshold, "threshold", 0.8, "pass threshold")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	var yes bool
	del := &cobra.Command{
		Use:   "delete <rubric-id>",
		Short: "Delete a rubric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("delete rubric %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.DeleteRubric(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	cmd.AddCommand(del)

	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var rubricID string

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Start a calibration run for a rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			id, err := client.Calibrate(cmd.Context(), rubricID)
			if err != nil {
				return err
			}
			fmt.Printf("calibration %s started\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&rubricID, "rubric", "", "rubric id")
	_ = cmd.MarkFlagRequired("rubric")
	return cmd
}

func newCalibrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrations",
		Short: "Inspect and apply calibration runs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List calibration runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			runs, err := client.ListCalibrations(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no calibrations")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "RUBRIC", "STATUS", "PROGRESS"})
			for _, r := range runs {
				t.AppendRow(table.Row{r.ID, r.RubricID, ui.StatusSprint(r.Status), ui.Percent(r.Progress)})
			}
			t.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <calibration-id>",
		Short: "Show one calibration run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			run, err := client.GetCalibration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("calibration %s: %s %s\n", run.ID, ui.StatusSprint(run.Status), ui.Percent(run.Progress))
			if results, err := api.DecodeResults(string(api.ResultCalibration), run.RawResults); err == nil && results != nil {
				fmt.Printf("agreement: %s\n", ui.Percent(results.Calibration.AgreementRate))
				for metric, value := range results.Calibration.Suggested {
					fmt.Printf("  %-20s %.2f\n", metric, value)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <calibration-id>",
		Short: "Apply a calibration's suggested thresholds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.ApplyCalibration(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("applied")
			return nil
		},
	})

	return cmd
}
