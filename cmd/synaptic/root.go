package main

import (
	"fmt"
	"os"

	"github.com/4thel00z/synaptic/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "synaptic",
		Short:         "Turn SVCMS commits into durable project memories",
		Long:          `Synaptic parses SVCMS-formatted commit messages and merges their memory notes into per-scope CLAUDE.md documents.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	addSubcommands(rootCmd)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("root", "", "Project root (default: discovered from the working directory)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command) {
	root.AddCommand(
		NewInitCmd(),
		NewSyncCmd(),
		NewStatsCmd(),
		NewTypesCmd(),
		NewCheckCmd(),
		NewWatchCmd(),
	)
}

// resolveProject returns the project root (from --root or by walking up to
// a .git directory) and the layered configuration for it.
func resolveProject(cmd *cobra.Command) (string, *internal.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("get working directory: %w", err)
		}
		root, err = internal.FindProjectRoot(cwd)
		if err != nil {
			return "", nil, err
		}
	}

	cfg, err := internal.LoadConfig(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}
