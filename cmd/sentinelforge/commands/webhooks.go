package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

func newWebhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage outbound webhooks",
	}
	cmd.AddCommand(
		newWebhooksListCmd(),
		newWebhooksAddCmd(),
		newWebhooksDeleteCmd(),
		newWebhooksTestCmd(),
	)
	return cmd
}

func newWebhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			hooks, err := client.ListWebhooks(cmd.Context())
			if err != nil {
				return err
			}
			if len(hooks) == 0 {
				fmt.Println("no webhooks")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "URL", "EVENTS", "ENABLED"})
			for _, h := range hooks {
				t.AppendRow(table.Row{h.ID, h.URL, strings.Join(h.Events, ","), h.Enabled})
			}
			t.Render()
			return nil
		},
	}
}

func newWebhooksAddCmd() *cobra.Command {
	var url string
	var events []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			created, err := client.CreateWebhook(cmd.Context(), api.Webhook{
				URL:     url,
				Events:  events,
				Enabled: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created webhook %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "delivery URL")
	cmd.Flags().StringSliceVar(&events, "events", nil, "events to deliver (empty = all)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newWebhooksDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <webhook-id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("delete webhook %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.DeleteWebhook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newWebhooksTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <webhook-id>",
		Short: "Send a test event to a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.TestWebhook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("test event sent")
			return nil
		},
	}
}
