package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/synaptic/internal"
	"github.com/spf13/cobra"
)

func NewTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List valid commit types",
		Long:  `List every commit type the configuration admits, optionally restricted to what a specific scope allows.`,
		RunE:  runTypes,
	}

	cmd.Flags().StringP("scope", "s", "", "Restrict to types valid for this scope")
	return cmd
}

func runTypes(cmd *cobra.Command, _ []string) error {
	_, cfg, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	scope, _ := cmd.Flags().GetString("scope")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc := internal.NewTypeService(cfg.CommitTypes)
	types := svc.ValidTypes(scope)

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(types)
	}

	for _, t := range types {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
