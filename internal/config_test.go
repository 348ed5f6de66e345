package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProjectConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Sync.DefaultDepth != 100 {
		t.Errorf("default depth = %d, want 100", cfg.Sync.DefaultDepth)
	}
	if cfg.Memory.Document != "CLAUDE.md" {
		t.Errorf("document = %q, want CLAUDE.md", cfg.Memory.Document)
	}
	if cfg.Memory.ModuleRoot != "src" {
		t.Errorf("module root = %q, want src", cfg.Memory.ModuleRoot)
	}
	if cfg.Sync.DryRunEnabled() {
		t.Error("dry run should default off")
	}
}

func TestLoadConfigProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeProjectConfig(t, root, `
sync:
  default_depth: 25
memory:
  document: NOTES.md
locations:
  auth: src/authentication/NOTES.md
vault:
  path: /tmp/vault
commit_types:
  additional: [spike]
  aliases:
    fixed: fix
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Sync.DefaultDepth != 25 {
		t.Errorf("depth = %d, want 25", cfg.Sync.DefaultDepth)
	}
	if cfg.Memory.Document != "NOTES.md" {
		t.Errorf("document = %q", cfg.Memory.Document)
	}
	if cfg.Memory.ModuleRoot != "src" {
		t.Errorf("module root = %q, want default preserved", cfg.Memory.ModuleRoot)
	}
	if cfg.Locations["auth"] != "src/authentication/NOTES.md" {
		t.Errorf("locations = %v", cfg.Locations)
	}
	if cfg.Vault.Path != "/tmp/vault" {
		t.Errorf("vault path = %q", cfg.Vault.Path)
	}
	if len(cfg.CommitTypes.Additional) != 1 || cfg.CommitTypes.Additional[0] != "spike" {
		t.Errorf("additional = %v", cfg.CommitTypes.Additional)
	}
	if cfg.CommitTypes.Aliases["fixed"] != "fix" {
		t.Errorf("aliases = %v", cfg.CommitTypes.Aliases)
	}
}

func TestLoadConfigLayering(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeProjectConfig(t, home, `
sync:
  default_depth: 50
memory:
  document: GLOBAL.md
commit_types:
  additional: [global-type]
`)

	root := t.TempDir()
	writeProjectConfig(t, root, `
memory:
  document: PROJECT.md
commit_types:
  additional: [project-type]
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	// Project scalars win, untouched global scalars survive, lists append.
	if cfg.Memory.Document != "PROJECT.md" {
		t.Errorf("document = %q, want project value", cfg.Memory.Document)
	}
	if cfg.Sync.DefaultDepth != 50 {
		t.Errorf("depth = %d, want global value", cfg.Sync.DefaultDepth)
	}
	if len(cfg.CommitTypes.Additional) != 2 {
		t.Errorf("additional = %v, want both layers", cfg.CommitTypes.Additional)
	}
}

func TestLoadConfigDryRunOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeProjectConfig(t, home, "sync:\n  dry_run: true\n")

	root := t.TempDir()

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Sync.DryRunEnabled() {
		t.Error("global dry_run: true not applied")
	}

	// An explicit project-level false wins over the global true.
	writeProjectConfig(t, root, "sync:\n  dry_run: false\n")
	cfg, err = LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sync.DryRunEnabled() {
		t.Error("project dry_run: false must override global true")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeProjectConfig(t, root, "sync: [not a mapping")

	_, err := LoadConfig(root)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), filepath.Join(root, ConfigDirName, ConfigFileName)) {
		t.Errorf("error does not name the config path: %v", err)
	}
}

func TestLoadConfigScopeRules(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeProjectConfig(t, root, `
commit_types:
  categories:
    ops:
      description: operations work
      types: [deploy, rollback]
  scopes:
    modules:
      auth:
        categories: [standard, knowledge]
    cross_cutting:
      logging:
        categories: [standard]
        custom_types: [instrument]
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	c := NewClassifier(cfg.CommitTypes)
	if !c.IsValid("ops.deploy", "") {
		t.Error("configured category not honored")
	}
	if c.IsValid("meta.workflow", "auth") {
		t.Error("scope rule not honored")
	}

	found := false
	for _, v := range c.ValidTypesForScope("logging") {
		if v == "instrument" {
			found = true
		}
	}
	if !found {
		t.Error("custom type missing from scope's valid types")
	}
}

func TestWriteSampleConfig(t *testing.T) {
	root := t.TempDir()

	path, err := WriteSampleConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, ConfigDirName, ConfigFileName) {
		t.Errorf("path = %q", path)
	}

	// The sample must parse with the real loader.
	t.Setenv("HOME", t.TempDir())
	if _, err := LoadConfig(root); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	if _, err := WriteSampleConfig(root); err == nil {
		t.Error("expected refusal to overwrite existing config")
	}
}
