package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
	"github.com/sentinelforge/sentinelforge/internal/ui"
)

func newScenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Manage attack scenarios",
	}
	cmd.AddCommand(
		newScenariosListCmd(),
		newScenariosCreateCmd(),
		newScenariosUpdateCmd(),
		newScenariosDeleteCmd(),
	)
	return cmd
}

func newScenariosListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			scenarios, err := client.ListScenarios(cmd.Context())
			if err != nil {
				return err
			}
			if len(scenarios) == 0 {
				fmt.Println("no scenarios")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "NAME", "CATEGORY", "CREATED"})
			for _, s := range scenarios {
				t.AppendRow(table.Row{s.ID, s.Name, s.Category, ui.RelTime(s.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

// parseScenarioConfig validates a user-supplied JSON config string.
// Invalid JSON is a local validation error, never sent to the server.
func parseScenarioConfig(raw string) (json.RawMessage, error) {
	if raw == "" {
		return nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("invalid JSON in config")
	}
	return json.RawMessage(raw), nil
}

func newScenariosCreateCmd() *cobra.Command {
	var name, description, category, configJSON string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			cfg, err := parseScenarioConfig(configJSON)
			if err != nil {
				return err
			}
			created, err := client.CreateScenario(cmd.Context(), api.Scenario{
				Name:        name,
				Description: description,
				Category:    category,
				Config:      cfg,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created scenario %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "scenario name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&configJSON, "config", "", "scenario config as JSON")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newScenariosUpdateCmd() *cobra.Command {
	var name, description, category, configJSON string

	cmd := &cobra.Command{
		Use:   "update <scenario-id>",
		Short: "Update a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			cfg, err := parseScenarioConfig(configJSON)
			if err != nil {
				return err
			}
			updated, err := client.UpdateScenario(cmd.Context(), api.Scenario{
				ID:          args[0],
				Name:        name,
				Description: description,
				Category:    category,
				Config:      cfg,
			})
			if err != nil {
				return err
			}
			fmt.Printf("updated scenario %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "scenario name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&configJSON, "config", "", "scenario config as JSON")
	return cmd
}

func newScenariosDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <scenario-id>",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("delete scenario %s?", args[0])) {
				return nil
			}
			_, client, err := setup()
			if err != nil {
				return err
			}
			if err := client.DeleteScenario(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// confirm asks a destructive-action question on the terminal.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
