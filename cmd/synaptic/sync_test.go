package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSyncCommand(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.commit(t, "plain commit", base)
	repo.commit(t, "learned(global): build quirk\n\nMemory: builds need CGO disabled", base.Add(time.Hour))

	out, err := execute(t, "sync", "--root", repo.root)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "Scanned 2 commits, 1 SVCMS, 1 new memories") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(repo.root, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "builds need CGO disabled") {
		t.Errorf("document missing memory:\n%s", data)
	}
}

func TestSyncCommandDryRun(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit(t, "learned(api): fact\n\nMemory: a fact", time.Now())

	out, err := execute(t, "sync", "--root", repo.root, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "(dry run - no files were modified)") {
		t.Errorf("missing dry-run notice:\n%s", out)
	}
	if !strings.Contains(out, "+") {
		t.Errorf("missing diff preview:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(repo.root, "src")); !os.IsNotExist(err) {
		t.Error("dry run wrote files")
	}
}

func TestSyncCommandJSON(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit(t, "learned(global): fact\n\nMemory: a fact", time.Now())

	out, err := execute(t, "sync", "--root", repo.root, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var payload struct {
		Scanned     int  `json:"scanned"`
		Qualifying  int  `json:"qualifying"`
		NewMemories int  `json:"new_memories"`
		DryRun      bool `json:"dry_run"`
		Documents   []struct {
			Path string `json:"path"`
			New  int    `json:"new"`
		} `json:"documents"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if payload.Scanned != 1 || payload.NewMemories != 1 {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.Documents) != 1 {
		t.Errorf("documents = %+v", payload.Documents)
	}
}

func TestSyncCommandBadSince(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit(t, "chore: one", time.Now())

	_, err := execute(t, "sync", "--root", repo.root, "--since", "01-05-2024")
	if err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Errorf("err = %v, want date format hint", err)
	}
}

func TestSyncCommandSince(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit(t, "learned(global): old\n\nMemory: old fact", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo.commit(t, "learned(global): new\n\nMemory: new fact", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	out, err := execute(t, "sync", "--root", repo.root, "--since", "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Scanned 1 commits, 1 SVCMS, 1 new memories") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}
