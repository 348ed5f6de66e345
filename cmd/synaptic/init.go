package main

import (
	"fmt"
	"os"

	"github.com/4thel00z/synaptic/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize Synaptic in the current project",
		Long:  `Write a sample project configuration to .synaptic/config.yaml at the project root.`,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		root, err = internal.FindProjectRoot(cwd)
		if err != nil {
			return err
		}
	}

	path, err := internal.WriteSampleConfig(root)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project config at %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to add your project-specific scopes, then run `synaptic sync`.")
	return nil
}
