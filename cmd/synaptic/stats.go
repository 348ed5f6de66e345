package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/synaptic/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	styleStatsTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	styleStatsCount = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	styleStatsType = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	styleStatsDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics about SVCMS commits",
		Long:  `Show how many commits in history qualify as SVCMS, how many carry memories, and the per-type breakdown.`,
		RunE:  runStats,
	}

	cmd.Flags().IntP("depth", "d", 0, "Number of commits to inspect (default from config)")
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	depth, _ := cmd.Flags().GetInt("depth")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc := internal.NewStatsService(root, cfg, internal.OpenCommitSource)
	stats, err := svc.Stats(cmd.Context(), depth)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if asJSON {
		return outputStatsJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styleStatsTitle.Render("SVCMS Statistics"))
	fmt.Fprintln(out, styleStatsDim.Render("─────────────────"))
	fmt.Fprintf(out, "Commits scanned:       %s\n", styleStatsCount.Render(fmt.Sprint(stats.Scanned)))
	fmt.Fprintf(out, "SVCMS commits:         %s\n", styleStatsCount.Render(fmt.Sprint(stats.Total)))
	fmt.Fprintf(out, "Commits with memories: %s\n", styleStatsCount.Render(fmt.Sprint(stats.WithMemory)))

	if len(stats.ByType) > 0 {
		fmt.Fprintln(out, "\nCommit types:")
		for _, tc := range stats.ByType {
			fmt.Fprintf(out, "  %s: %d\n", styleStatsType.Render(tc.Type), tc.Count)
		}
	}
	return nil
}

func outputStatsJSON(cmd *cobra.Command, stats *internal.Stats) error {
	byType := make([]map[string]any, 0, len(stats.ByType))
	for _, tc := range stats.ByType {
		byType = append(byType, map[string]any{
			"type":  tc.Type,
			"count": tc.Count,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"scanned":     stats.Scanned,
		"total":       stats.Total,
		"with_memory": stats.WithMemory,
		"by_type":     byType,
	})
}
