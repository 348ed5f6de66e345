package internal

import (
	"sort"
	"strings"
)

// The four built-in categories used when no configuration is supplied, and
// as the permissive fallback for scopes without a rule.
var defaultCategoryNames = []string{"standard", "knowledge", "collaboration", "meta"}

// ParsedType is the decomposition of a raw type token. Category is empty
// for legacy single-tier tokens.
type ParsedType struct {
	Category string
	Type     string
	Original string
}

// ScopeRule states which categories (and extra custom tokens) a commit
// scope may use. The category name "all" admits every category.
type ScopeRule struct {
	Categories  []string
	CustomTypes []string
}

// Classifier validates and normalizes commit type tokens against the
// two-tier category/scope configuration. It never fails: unknown input
// yields false or empty results.
//
// Note that the Classifier and the parser's fixed allow-list are separate
// authorities on type legitimacy: the allow-list governs what the sync
// pipeline ingests, the Classifier governs the validation and suggestion
// surface. A configured category can admit tokens the pipeline will never
// ingest.
type Classifier struct {
	categories map[string]map[string]bool

	// Scope tables, probed in this order.
	moduleScopes       map[string]ScopeRule
	crossCuttingScopes map[string]ScopeRule
	toolingScopes      map[string]ScopeRule
	projectWideScopes  map[string]ScopeRule

	legacyTypes map[string]bool
	aliases     map[string]string
}

// DefaultClassifier builds a classifier with the four built-in categories
// and empty scope tables.
func DefaultClassifier() *Classifier {
	c := &Classifier{
		categories:         make(map[string]map[string]bool),
		moduleScopes:       make(map[string]ScopeRule),
		crossCuttingScopes: make(map[string]ScopeRule),
		toolingScopes:      make(map[string]ScopeRule),
		projectWideScopes:  make(map[string]ScopeRule),
		legacyTypes:        make(map[string]bool),
		aliases:            make(map[string]string),
	}

	c.setCategory("standard", []string{
		"feat", "fix", "docs", "style", "refactor",
		"perf", "test", "build", "ci", "chore",
	})
	c.setCategory("knowledge", []string{"learned", "insight", "context", "decision", "memory"})
	c.setCategory("collaboration", []string{"discussed", "explored", "attempted"})
	c.setCategory("meta", []string{"workflow", "preference", "pattern"})

	return c
}

// NewClassifier builds a classifier from configuration, layered over the
// built-in defaults.
func NewClassifier(cfg CommitTypesConfig) *Classifier {
	c := DefaultClassifier()

	for name, category := range cfg.Categories {
		c.setCategory(name, category.Types)
	}

	c.moduleScopes = scopeRules(cfg.Scopes.Modules)
	c.crossCuttingScopes = scopeRules(cfg.Scopes.CrossCutting)
	c.toolingScopes = scopeRules(cfg.Scopes.Tooling)
	c.projectWideScopes = scopeRules(cfg.Scopes.ProjectWide)

	for _, t := range cfg.Additional {
		c.legacyTypes[t] = true
	}
	if len(cfg.Override) > 0 {
		c.legacyTypes = make(map[string]bool, len(cfg.Override))
		for _, t := range cfg.Override {
			c.legacyTypes[t] = true
		}
	}
	for from, to := range cfg.Aliases {
		c.aliases[from] = to
	}

	return c
}

func (c *Classifier) setCategory(name string, types []string) {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	c.categories[name] = set
}

func scopeRules(cfg map[string]ScopeRuleConfig) map[string]ScopeRule {
	rules := make(map[string]ScopeRule, len(cfg))
	for name, rule := range cfg {
		rules[name] = ScopeRule{
			Categories:  rule.Categories,
			CustomTypes: rule.CustomTypes,
		}
	}
	return rules
}

// Parse decomposes a raw token, applying the alias map first. A token
// containing a dot splits into category and base type at the first dot;
// anything else is a legacy bare type.
func (c *Classifier) Parse(token string) ParsedType {
	normalized := token
	if target, ok := c.aliases[token]; ok {
		normalized = target
	}

	if dot := strings.Index(normalized, "."); dot >= 0 {
		return ParsedType{
			Category: normalized[:dot],
			Type:     normalized[dot+1:],
			Original: token,
		}
	}

	return ParsedType{Type: normalized, Original: token}
}

// IsValid reports whether a type token is legitimate, optionally within a
// scope. Pass an empty scope for scope-free validation.
func (c *Classifier) IsValid(token, scope string) bool {
	parsed := c.Parse(token)

	switch {
	case parsed.Category != "" && scope != "":
		return c.categoryHasType(parsed.Category, parsed.Type) &&
			c.scopeAllowsCategory(scope, parsed.Category)
	case parsed.Category != "":
		return c.categoryHasType(parsed.Category, parsed.Type)
	default:
		return c.isLegacyValid(parsed.Type)
	}
}

func (c *Classifier) categoryHasType(category, commitType string) bool {
	return c.categories[category][commitType]
}

func (c *Classifier) scopeAllowsCategory(scope, category string) bool {
	if rule, ok := c.findScopeRule(scope); ok {
		for _, name := range rule.Categories {
			if name == "all" || name == category {
				return true
			}
		}
		return false
	}

	// No rule for this scope: allow the default categories only.
	for _, name := range defaultCategoryNames {
		if name == category {
			return true
		}
	}
	return false
}

func (c *Classifier) isLegacyValid(commitType string) bool {
	if c.legacyTypes[commitType] {
		return true
	}

	// Bare types from any category remain valid for backwards compatibility.
	for _, types := range c.categories {
		if types[commitType] {
			return true
		}
	}
	return false
}

// findScopeRule probes the four scope classes in precedence order:
// module > cross-cutting > tooling > project-wide.
func (c *Classifier) findScopeRule(scope string) (ScopeRule, bool) {
	for _, table := range []map[string]ScopeRule{
		c.moduleScopes,
		c.crossCuttingScopes,
		c.toolingScopes,
		c.projectWideScopes,
	} {
		if rule, ok := table[scope]; ok {
			return rule, true
		}
	}
	return ScopeRule{}, false
}

// ValidTypesForScope returns every type token the scope admits, in both
// legacy and category.type form, deduplicated and sorted.
func (c *Classifier) ValidTypesForScope(scope string) []string {
	var valid []string

	rule, ok := c.findScopeRule(scope)
	if !ok {
		for name, types := range c.categories {
			for t := range types {
				valid = append(valid, name+"."+t, t)
			}
		}
		return dedupSorted(valid)
	}

	for _, name := range rule.Categories {
		if name == "all" {
			for catName, types := range c.categories {
				for t := range types {
					valid = append(valid, t, catName+"."+t)
				}
			}
			continue
		}
		for t := range c.categories[name] {
			valid = append(valid, name+"."+t, t)
		}
	}
	valid = append(valid, rule.CustomTypes...)

	return dedupSorted(valid)
}

// SuggestAlternatives proposes valid tokens for an invalid one: qualified
// forms from every category containing the raw token, plus up to five of
// the scope's valid types when a scope is given.
func (c *Classifier) SuggestAlternatives(invalidType, scope string) []string {
	var suggestions []string

	for name, types := range c.categories {
		if types[invalidType] {
			suggestions = append(suggestions, name+"."+invalidType)
		}
	}

	if scope != "" {
		valid := c.ValidTypesForScope(scope)
		if len(valid) > 5 {
			valid = valid[:5]
		}
		suggestions = append(suggestions, valid...)
	}

	return dedupSorted(suggestions)
}

func dedupSorted(values []string) []string {
	sort.Strings(values)

	out := values[:0]
	var prev string
	for i, v := range values {
		if i == 0 || v != prev {
			out = append(out, v)
		}
		prev = v
	}
	return out
}
