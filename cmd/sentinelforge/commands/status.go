package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection, session, and backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup()
			if err != nil {
				return err
			}

			fmt.Printf("server: %s\n", cfg.Server.URL)

			if id := client.CurrentIdentity(); id != nil {
				fmt.Printf("logged in as %s (%s)", id.Username, id.Role)
				if !id.ExpiresAt.IsZero() {
					fmt.Printf(", session expires in %s", time.Until(id.ExpiresAt).Round(time.Minute))
				}
				fmt.Println()
			} else {
				fmt.Println("not logged in")
			}

			status, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Printf("backend: %s\n", color.New(color.FgRed).Sprint("unreachable"))
				return nil
			}
			label := status.Status
			if label == "ok" || label == "healthy" {
				label = color.New(color.FgGreen).Sprint(label)
			}
			fmt.Printf("backend: %s", label)
			if status.Version != "" {
				fmt.Printf(" (v%s)", status.Version)
			}
			fmt.Println()
			return nil
		},
	}
}
