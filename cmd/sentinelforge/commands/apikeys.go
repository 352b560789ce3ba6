package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newAPIKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikeys",
		Short: "Manage programmatic API keys",
	}
	cmd.AddCommand(
		newAPIKeysListCmd(),
		newAPIKeysCreateCmd(),
		newAPIKeysRevokeCmd(),
	)
	return cmd
}

func newAPIKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			keys, err := client.ListAPIKeys(cmd.Context())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("no API keys")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "NAME", "PREFIX", "CREATED", "LAST USED"})
			for _, k := range keys {
				t.AppendRow(table.Row{k.ID, k.Name, k.Prefix, ui.RelTime(k.CreatedAt), ui.RelTime(k.LastUsedAt)})
			}
			t.Render()
			return nil
		},
	}
}

func newAPIKeysCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			key, err := client.CreateAPIKey(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("created key %s\n", key.ID)
			// The secret is shown exactly once; the server never
			// returns it again.
			fmt.Printf("secret: %s\n", key.Secret)
			fmt.Println("store it now; it cannot be retrieved later")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "key name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAPIKeysRevokeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("revoke key %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.RevokeAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("revoked")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
