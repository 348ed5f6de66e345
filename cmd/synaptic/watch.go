package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/4thel00z/synaptic/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the repository and sync on new commits",
		Long:  `Watch the project's .git directory for new commits and run a sync after each one.`,
		RunE:  runWatch,
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching ref updates")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
	svc := internal.NewSyncService(root, cfg, internal.OpenCommitSource)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addGitWatchDirs(watcher, filepath.Join(root, ".git")); err != nil {
		return fmt.Errorf("add watch dirs: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for new commits...\n", root)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRefEvent(event) {
				continue
			}
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		case <-timer.C:
			pending = false
			report, syncErr := svc.Sync(cmd.Context(), internal.SyncOptions{})
			if syncErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "sync error: %v\n", syncErr)
				continue
			}
			if report.NewMemories > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d new memories\n", report.NewMemories)
			}
		}
	}
}

// addGitWatchDirs watches the git dir itself (HEAD updates) plus the branch
// heads. Ref directories may not exist yet in a fresh repository.
func addGitWatchDirs(watcher *fsnotify.Watcher, gitDir string) error {
	if err := watcher.Add(gitDir); err != nil {
		return err
	}

	headsDir := filepath.Join(gitDir, "refs", "heads")
	if info, err := os.Stat(headsDir); err == nil && info.IsDir() {
		if err := watcher.Add(headsDir); err != nil {
			return err
		}
	}
	return nil
}

func isRefEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if base == "HEAD" || base == "packed-refs" {
		return true
	}
	return filepath.Base(filepath.Dir(event.Name)) == "heads"
}
