package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Launch specialized evaluation runs",
	}

	for _, kind := range api.EvalKinds {
		cmd.AddCommand(newEvalKindCmd(kind))
	}
	return cmd
}

func newEvalKindCmd(kind api.EvalKind) *cobra.Command {
	var model, configJSON string
	var follow bool

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Launch a %s run", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup()
			if err != nil {
				return err
			}

			var evalCfg json.RawMessage
			if configJSON != "" {
				if !json.Valid([]byte(configJSON)) {
					return fmt.Errorf("invalid JSON in config")
				}
				evalCfg = json.RawMessage(configJSON)
			}

			id, err := client.LaunchEval(cmd.Context(), kind, api.EvalRequest{
				TargetModel: model,
				Config:      evalCfg,
			})
			if err != nil {
				return err
			}
			fmt.Printf("launched %s run %s\n", kind, id)
			if follow {
				return watchRun(cmd, client, cfg, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "target model")
	cmd.Flags().StringVar(&configJSON, "config", "", "evaluation config as JSON")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "watch progress until the run settles")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
