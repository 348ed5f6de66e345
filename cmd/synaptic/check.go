package main

import (
	"fmt"

	"github.com/4thel00z/synaptic/internal"
	"github.com/spf13/cobra"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <type>",
		Short: "Validate a commit type token",
		Long:  `Check a commit type token (bare or category.type) against the configured categories and scope rules, suggesting alternatives when it is invalid.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().StringP("scope", "s", "", "Validate within this scope")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, cfg, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	token := args[0]
	scope, _ := cmd.Flags().GetString("scope")

	svc := internal.NewTypeService(cfg.CommitTypes)
	valid, suggestions := svc.Check(token, scope)

	out := cmd.OutOrStdout()
	if valid {
		if scope != "" {
			fmt.Fprintf(out, "%s is valid for scope %s\n", token, scope)
		} else {
			fmt.Fprintf(out, "%s is valid\n", token)
		}
		return nil
	}

	if len(suggestions) > 0 {
		fmt.Fprintln(out, "Did you mean:")
		for _, s := range suggestions {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}

	if scope != "" {
		return fmt.Errorf("invalid type %q for scope %q", token, scope)
	}
	return fmt.Errorf("invalid type %q", token)
}
