package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newAuditCmd() *cobra.Command {
	var actor, action string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the platform audit trail",
		Example: `  sentinelforge audit
  sentinelforge audit --actor alice
  sentinelforge audit --action run.launch --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			page, err := client.AuditTrail(cmd.Context(), api.AuditQuery{
				Actor:  actor,
				Action: action,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}
			if len(page.Items) == 0 {
				fmt.Println("no audit entries")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"TIME", "ACTOR", "ACTION", "RESOURCE"})
			for _, e := range page.Items {
				t.AppendRow(table.Row{ui.RelTime(e.Timestamp), e.Actor, e.Action, e.Resource})
			}
			t.Render()

			fmt.Printf("%d of %d entries\n", len(page.Items), page.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "filter by actor")
	cmd.Flags().StringVar(&action, "action", "", "filter by action")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	cmd.AddCommand(&cobra.Command{
		Use:   "actions",
		Short: "List distinct audit actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			actions, err := client.AuditActions(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range actions {
				fmt.Println(a)
			}
			return nil
		},
	})
	return cmd
}
