package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newSchedulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage recurring scan schedules",
	}
	cmd.AddCommand(
		newSchedulesListCmd(),
		newSchedulesCreateCmd(),
		newSchedulesDeleteCmd(),
		newSchedulesTriggerCmd(),
	)
	return cmd
}

func newSchedulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			schedules, err := client.ListSchedules(cmd.Context())
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				fmt.Println("no schedules")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "NAME", "CRON", "ENABLED", "LAST RUN", "NEXT RUN"})
			for _, s := range schedules {
				t.AppendRow(table.Row{s.ID, s.Name, s.Cron, s.Enabled, ui.RelTime(s.LastRunAt), ui.RelTime(s.NextRunAt)})
			}
			t.Render()
			return nil
		},
	}
}

func newSchedulesCreateCmd() *cobra.Command {
	var name, cron, scenarioID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			created, err := client.CreateSchedule(cmd.Context(), api.Schedule{
				Name:       name,
				Cron:       cron,
				ScenarioID: scenarioID,
				Enabled:    true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created schedule %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "schedule name")
	cmd.Flags().StringVar(&cron, "cron", "", "cron expression")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cron")
	return cmd
}

func newSchedulesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <schedule-id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("delete schedule %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.DeleteSchedule(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newSchedulesTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <schedule-id>",
		Short: "Run a schedule immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			runID, err := client.TriggerSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("triggered run %s\n", runID)
			return nil
		},
	}
}
