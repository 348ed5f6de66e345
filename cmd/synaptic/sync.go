package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/4thel00z/synaptic/internal"
	"github.com/spf13/cobra"
)

func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge commit memories into CLAUDE.md documents",
		Long:  `Walk the commit history, parse SVCMS messages, and merge their memory notes into the per-scope CLAUDE.md documents.`,
		RunE:  runSync,
	}

	cmd.Flags().IntP("depth", "d", 0, "Number of commits to process (default from config)")
	cmd.Flags().String("since", "", "Only process commits since this date (YYYY-MM-DD)")
	cmd.Flags().Bool("dry-run", false, "Preview changes without writing files")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	depth, _ := cmd.Flags().GetInt("depth")
	sinceStr, _ := cmd.Flags().GetString("since")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")

	var since time.Time
	if sinceStr != "" {
		since, err = time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return fmt.Errorf("invalid --since date %q, use YYYY-MM-DD", sinceStr)
		}
	}

	svc := internal.NewSyncService(root, cfg, internal.OpenCommitSource)
	report, err := svc.Sync(cmd.Context(), internal.SyncOptions{
		Depth:  depth,
		Since:  since,
		DryRun: dryRun,
	})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if asJSON {
		return outputSyncJSON(cmd, report)
	}

	out := cmd.OutOrStdout()
	for _, change := range report.Changes {
		if report.DryRun {
			fmt.Fprintf(out, "%s (+%d)\n%s", change.Path, change.New, change.Diff)
		} else {
			fmt.Fprintf(out, "%s (+%d)\n", change.Path, change.New)
		}
	}

	fmt.Fprintf(out, "Scanned %d commits, %d SVCMS, %d new memories\n",
		report.Scanned, report.Qualifying, report.NewMemories)
	if report.VaultNotes > 0 {
		fmt.Fprintf(out, "Wrote %d vault notes\n", report.VaultNotes)
	}
	if report.DryRun {
		fmt.Fprintln(out, "(dry run - no files were modified)")
	}
	return nil
}

func outputSyncJSON(cmd *cobra.Command, report *internal.SyncReport) error {
	changes := make([]map[string]any, 0, len(report.Changes))
	for _, change := range report.Changes {
		changes = append(changes, map[string]any{
			"path": change.Path,
			"new":  change.New,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"scanned":      report.Scanned,
		"qualifying":   report.Qualifying,
		"new_memories": report.NewMemories,
		"vault_notes":  report.VaultNotes,
		"dry_run":      report.DryRun,
		"documents":    changes,
	})
}
