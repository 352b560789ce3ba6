package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			status, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("status: %s\n", status.Status)
			if status.Version != "" {
				fmt.Printf("version: %s\n", status.Version)
			}
			if len(status.Components) > 0 {
				names := make([]string, 0, len(status.Components))
				for name := range status.Components {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("  %-20s %s\n", name, status.Components[name])
				}
			}
			return nil
		},
	}
}
