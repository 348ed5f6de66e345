package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStatsCommand(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.commit(t, "plain commit", base)
	repo.commit(t, "feat(auth): one", base.Add(time.Hour))
	repo.commit(t, "feat(api): two", base.Add(2*time.Hour))
	repo.commit(t, "learned(api): three\n\nMemory: a fact", base.Add(3*time.Hour))

	out, err := execute(t, "stats", "--root", repo.root)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"SVCMS Statistics", "Commits scanned:", "feat", "learned"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCommandJSON(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit(t, "learned(api): fact\n\nMemory: a fact", time.Now())

	out, err := execute(t, "stats", "--root", repo.root, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var payload struct {
		Scanned    int `json:"scanned"`
		Total      int `json:"total"`
		WithMemory int `json:"with_memory"`
		ByType     []struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
		} `json:"by_type"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if payload.Scanned != 1 || payload.Total != 1 || payload.WithMemory != 1 {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.ByType) != 1 || payload.ByType[0].Type != "learned" {
		t.Errorf("by_type = %+v", payload.ByType)
	}
}
