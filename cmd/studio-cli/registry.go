// cmd/studio-cli/registry.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"costume-studio/pkg/registry"
)

func (c *cli) registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
		Long: `The activity registry lists every workflow task type the worker manager
serves, with its input schema, outputs, error codes and timeout.

Available subcommands:
  export   - Write the built-in registry to a file
  validate - Check a registry file
  list     - Print task types and timeouts`,
	}

	var exportPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in registry to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.DefaultRegistry()
			reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			if err := reg.Save(exportPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), exportPath)
			return nil
		},
	}
	export.Flags().StringVar(&exportPath, "path", "configs/activity-registry.json", "output file")

	var validatePath string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(validatePath)
			if err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed (%d activities).\n", len(reg.Activities))
			return nil
		},
	}
	validate.Flags().StringVar(&validatePath, "path", "configs/activity-registry.json", "registry file")

	var listPath string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print task types and timeouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.DefaultRegistry()
			if listPath != "" {
				var err error
				if reg, err = registry.LoadRegistry(listPath); err != nil {
					return err
				}
			}
			type entry struct {
				TaskType string   `json:"taskType"`
				Category string   `json:"category"`
				Timeout  string   `json:"timeout"`
				Outputs  []string `json:"outputs"`
			}
			entries := make([]entry, 0, len(reg.Activities))
			for _, a := range reg.Activities {
				entries = append(entries, entry{TaskType: a.TaskType, Category: a.Category, Timeout: a.Timeout, Outputs: a.Outputs})
			}
			return c.printResult(cmd.OutOrStdout(), entries)
		},
	}
	list.Flags().StringVar(&listPath, "path", "", "registry file (default: built-in)")

	cmd.AddCommand(export, validate, list)
	return cmd
}
