package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List attack tools available on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			tools, err := client.ListTools(cmd.Context())
			if err != nil {
				return err
			}
			if len(tools) == 0 {
				fmt.Println("no tools")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"NAME", "VERSION", "AVAILABLE", "DESCRIPTION"})
			for _, tool := range tools {
				avail := "yes"
				if !tool.Available {
					avail = "no"
				}
				t.AppendRow(table.Row{tool.Name, tool.Version, avail, tool.Description})
			}
			t.Render()
			return nil
		},
	}
}
