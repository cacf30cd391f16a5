// cmd/studio-cli/submit.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"costume-studio/internal/common/config"
)

type submitResult struct {
	ProcessID          string `json:"processId"`
	ProcessInstanceKey int64  `json:"processInstanceKey"`
}

func (c *cli) submitCmd() *cobra.Command {
	var processID, varsPath, broker string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start a workflow instance on the broker",
		Long: `Starts the latest deployed version of a BPMN process with variables read
from a YAML or JSON file. The worker manager picks up its tasks.

Example:
  studio submit --process costume-look --vars brief.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars := map[string]interface{}{}
			if varsPath != "" {
				if err := decodeFile(varsPath, &vars); err != nil {
					return err
				}
			}

			if broker == "" {
				cfg, err := config.LoadStudio(c.configPath)
				if err != nil {
					return err
				}
				broker = cfg.Camunda.BrokerAddress
			}
			if broker == "" {
				return fmt.Errorf("no broker address: pass --broker or set camunda.broker_address")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			wf, err := c.openWorkflow(broker)
			if err != nil {
				return err
			}
			defer wf.Close()

			key, err := wf.CreateInstance(ctx, processID, vars)
			if err != nil {
				return err
			}
			c.log.Info("process instance created", map[string]interface{}{
				"processId":          processID,
				"processInstanceKey": key,
			})
			return c.printResult(cmd.OutOrStdout(), &submitResult{ProcessID: processID, ProcessInstanceKey: key})
		},
	}
	cmd.Flags().StringVar(&processID, "process", "", "BPMN process id")
	cmd.Flags().StringVar(&varsPath, "vars", "", "process variables file (YAML or JSON)")
	cmd.Flags().StringVar(&broker, "broker", "", "gateway address (default camunda.broker_address)")
	cmd.MarkFlagRequired("process")
	return cmd
}
