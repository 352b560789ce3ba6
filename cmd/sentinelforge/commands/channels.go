package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

func newChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage notification channels",
	}
	cmd.AddCommand(
		newChannelsListCmd(),
		newChannelsAddCmd(),
		newChannelsDeleteCmd(),
		newChannelsTestCmd(),
	)
	return cmd
}

func newChannelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notification channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			channels, err := client.ListChannels(cmd.Context())
			if err != nil {
				return err
			}
			if len(channels) == 0 {
				fmt.Println("no channels")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "TYPE", "NAME", "ENABLED"})
			for _, ch := range channels {
				t.AppendRow(table.Row{ch.ID, ch.Type, ch.Name, ch.Enabled})
			}
			t.Render()
			return nil
		},
	}
}

func newChannelsAddCmd() *cobra.Command {
	var chType, name, configJSON string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a notification channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			var cfg json.RawMessage
			if configJSON != "" {
				if !json.Valid([]byte(configJSON)) {
					return fmt.Errorf("invalid JSON in config")
				}
				cfg = json.RawMessage(configJSON)
			}
			created, err := client.CreateChannel(cmd.Context(), api.Channel{
				Type:    chType,
				Name:    name,
				Config:  cfg,
				Enabled: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created channel %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&chType, "type", "slack", "channel type")
	cmd.Flags().StringVar(&name, "name", "", "channel name")
	cmd.Flags().StringVar(&configJSON, "config", "", "channel config as JSON")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newChannelsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <channel-id>",
		Short: "Delete a notification channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("delete channel %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.DeleteChannel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newChannelsTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <channel-id>",
		Short: "Send a test notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.TestChannel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("test notification sent")
			return nil
		},
	}
}
