package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTypesCommand(t *testing.T) {
	repo := newTestRepo(t)

	out, err := execute(t, "types", "--root", repo.root)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"feat", "knowledge.learned", "meta.workflow"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTypesCommandScoped(t *testing.T) {
	repo := newTestRepo(t)
	writeConfig(t, repo.root, `
commit_types:
  scopes:
    modules:
      auth:
        categories: [standard]
`)

	out, err := execute(t, "types", "--root", repo.root, "--scope", "auth")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "standard.feat") {
		t.Errorf("output missing allowed type:\n%s", out)
	}
	if strings.Contains(out, "knowledge.learned") {
		t.Errorf("output leaks excluded category:\n%s", out)
	}
}

func TestTypesCommandJSON(t *testing.T) {
	repo := newTestRepo(t)

	out, err := execute(t, "types", "--root", repo.root, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var types []string
	if err := json.Unmarshal([]byte(out), &types); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(types) == 0 {
		t.Error("empty type list")
	}
}
