package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = ".synaptic"
	ConfigFileName = "config.yaml"
)

type SyncConfig struct {
	DefaultDepth int `yaml:"default_depth"`

	// DryRun is a pointer so an explicit `dry_run: false` in a later layer
	// can override an earlier `dry_run: true`.
	DryRun *bool `yaml:"dry_run"`
}

// DryRunEnabled reports the configured dry-run default; unset means false.
func (s SyncConfig) DryRunEnabled() bool {
	return s.DryRun != nil && *s.DryRun
}

type MemoryConfig struct {
	Document   string `yaml:"document"`
	ModuleRoot string `yaml:"module_root"`
}

type CategoryConfig struct {
	Description string   `yaml:"description"`
	Types       []string `yaml:"types"`
}

type ScopeRuleConfig struct {
	Categories  []string `yaml:"categories"`
	CustomTypes []string `yaml:"custom_types,omitempty"`
}

type ScopesConfig struct {
	Modules      map[string]ScopeRuleConfig `yaml:"modules,omitempty"`
	CrossCutting map[string]ScopeRuleConfig `yaml:"cross_cutting,omitempty"`
	Tooling      map[string]ScopeRuleConfig `yaml:"tooling,omitempty"`
	ProjectWide  map[string]ScopeRuleConfig `yaml:"project_wide,omitempty"`
}

type CommitTypesConfig struct {
	Additional []string                  `yaml:"additional,omitempty"`
	Override   []string                  `yaml:"override,omitempty"`
	Aliases    map[string]string         `yaml:"aliases,omitempty"`
	Categories map[string]CategoryConfig `yaml:"categories,omitempty"`
	Scopes     ScopesConfig              `yaml:"scopes,omitempty"`
}

type VaultConfig struct {
	Path    string `yaml:"path,omitempty"`
	Folder  string `yaml:"folder,omitempty"`
	Project string `yaml:"project,omitempty"`
}

type Config struct {
	Sync        SyncConfig        `yaml:"sync"`
	Memory      MemoryConfig      `yaml:"memory"`
	CommitTypes CommitTypesConfig `yaml:"commit_types,omitempty"`
	Locations   map[string]string `yaml:"locations,omitempty"`
	Vault       VaultConfig       `yaml:"vault,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			DefaultDepth: 100,
		},
		Memory: MemoryConfig{
			Document:   DefaultMemoryDocument,
			ModuleRoot: DefaultModuleRoot,
		},
	}
}

// LoadConfig resolves the effective configuration for a project: defaults,
// layered with the global file (~/.synaptic/config.yaml), layered with the
// project file (<root>/.synaptic/config.yaml). Missing files mean defaults;
// a file that exists but does not parse is a hard error, so a bad
// configuration never causes a partial sync.
func LoadConfig(root string) (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		if err := cfg.layerFile(filepath.Join(home, ConfigDirName, ConfigFileName)); err != nil {
			return nil, err
		}
	}

	if root != "" {
		if err := cfg.layerFile(filepath.Join(root, ConfigDirName, ConfigFileName)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadConfigFile reads a single configuration file over the defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.layerFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) layerFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var layer Config
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.merge(&layer)
	return nil
}

// merge overlays a layer onto the receiver. Scalars win when set, maps are
// merged per key, the legacy additional list is appended.
func (c *Config) merge(layer *Config) {
	if layer.Sync.DefaultDepth != 0 {
		c.Sync.DefaultDepth = layer.Sync.DefaultDepth
	}
	if layer.Sync.DryRun != nil {
		c.Sync.DryRun = layer.Sync.DryRun
	}

	if layer.Memory.Document != "" {
		c.Memory.Document = layer.Memory.Document
	}
	if layer.Memory.ModuleRoot != "" {
		c.Memory.ModuleRoot = layer.Memory.ModuleRoot
	}

	c.CommitTypes.Additional = append(c.CommitTypes.Additional, layer.CommitTypes.Additional...)
	if len(layer.CommitTypes.Override) > 0 {
		c.CommitTypes.Override = layer.CommitTypes.Override
	}
	if len(layer.CommitTypes.Aliases) > 0 {
		if c.CommitTypes.Aliases == nil {
			c.CommitTypes.Aliases = make(map[string]string)
		}
		for from, to := range layer.CommitTypes.Aliases {
			c.CommitTypes.Aliases[from] = to
		}
	}
	if len(layer.CommitTypes.Categories) > 0 {
		if c.CommitTypes.Categories == nil {
			c.CommitTypes.Categories = make(map[string]CategoryConfig)
		}
		for name, category := range layer.CommitTypes.Categories {
			c.CommitTypes.Categories[name] = category
		}
	}
	c.CommitTypes.Scopes.Modules = mergeScopeTable(c.CommitTypes.Scopes.Modules, layer.CommitTypes.Scopes.Modules)
	c.CommitTypes.Scopes.CrossCutting = mergeScopeTable(c.CommitTypes.Scopes.CrossCutting, layer.CommitTypes.Scopes.CrossCutting)
	c.CommitTypes.Scopes.Tooling = mergeScopeTable(c.CommitTypes.Scopes.Tooling, layer.CommitTypes.Scopes.Tooling)
	c.CommitTypes.Scopes.ProjectWide = mergeScopeTable(c.CommitTypes.Scopes.ProjectWide, layer.CommitTypes.Scopes.ProjectWide)

	if len(layer.Locations) > 0 {
		if c.Locations == nil {
			c.Locations = make(map[string]string)
		}
		for scope, path := range layer.Locations {
			c.Locations[scope] = path
		}
	}

	if layer.Vault.Path != "" {
		c.Vault.Path = layer.Vault.Path
	}
	if layer.Vault.Folder != "" {
		c.Vault.Folder = layer.Vault.Folder
	}
	if layer.Vault.Project != "" {
		c.Vault.Project = layer.Vault.Project
	}
}

func mergeScopeTable(base, layer map[string]ScopeRuleConfig) map[string]ScopeRuleConfig {
	if len(layer) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]ScopeRuleConfig, len(layer))
	}
	for name, rule := range layer {
		base[name] = rule
	}
	return base
}

const sampleProjectConfig = `# Synaptic project configuration.
# Layers over ~/.synaptic/config.yaml; project values win.

sync:
  default_depth: 100

memory:
  document: CLAUDE.md
  module_root: src

commit_types:
  aliases:
    fixed: fix
    decided: decision
  scopes:
    modules:
      main:
        categories: [standard, knowledge]

# Route a scope to an explicit document:
# locations:
#   auth: src/authentication/CLAUDE.md

# Mirror memories into an Obsidian vault:
# vault:
#   path: ~/Documents/Vault
#   folder: synaptic
#   project: my-project
`

// WriteSampleConfig creates the project configuration file with commented
// examples. It refuses to overwrite an existing file.
func WriteSampleConfig(root string) (string, error) {
	dir := filepath.Join(root, ConfigDirName)
	path := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleProjectConfig), 0644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}
