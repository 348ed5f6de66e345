package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

const DefaultVaultFolder = "synaptic"

// Vault mirrors memory-carrying records into an Obsidian vault as one
// templated note per commit.
type Vault struct {
	path    string
	folder  string
	project string
}

// NewVault validates the vault configuration. The vault path must already
// exist; fallbackProject is used when no project name is configured.
func NewVault(cfg VaultConfig, fallbackProject string) (*Vault, error) {
	if cfg.Path == "" {
		return nil, ErrNoVault
	}

	info, err := os.Stat(cfg.Path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault path does not exist: %s", cfg.Path)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = DefaultVaultFolder
	}
	project := cfg.Project
	if project == "" {
		project = fallbackProject
	}

	return &Vault{path: cfg.Path, folder: folder, project: project}, nil
}

func (v *Vault) commitsDir() string {
	return filepath.Join(v.path, v.folder, "projects", v.project, "commits")
}

// SyncNotes writes one note per memory-carrying record, skipping notes that
// already exist. Returns the number of notes written.
func (v *Vault) SyncNotes(records []*CommitRecord) (int, error) {
	written := 0
	for _, rec := range records {
		if rec.Memory == "" {
			continue
		}
		ok, err := v.writeNote(rec)
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func (v *Vault) writeNote(rec *CommitRecord) (bool, error) {
	dir := v.commitsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create notes directory: %w", err)
	}

	path := filepath.Join(dir, NoteFilename(rec))
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	var sb strings.Builder
	if err := noteTemplate.Execute(&sb, noteData{
		SHA:      rec.SHA,
		Type:     rec.Type,
		Scope:    rec.Scope,
		Summary:  rec.Summary,
		Body:     rec.Body,
		Memory:   rec.Memory,
		Context:  rec.Context,
		Date:     rec.Timestamp.Format("2006-01-02"),
		Project:  v.project,
		Refs:     rec.Refs,
		Tags:     rec.Tags,
		Concepts: ExtractConcepts(rec),
	}); err != nil {
		return false, fmt.Errorf("render note: %w", err)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return false, fmt.Errorf("write note %s: %w", path, err)
	}
	return true, nil
}

// NoteFilename builds YYYY-MM-DD-type-scope-summary.md with the summary
// sanitized for filesystem use and capped at 30 characters.
func NoteFilename(rec *CommitRecord) string {
	scope := rec.Scope
	if scope == "" {
		scope = "general"
	}

	summary := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, rec.Summary)
	summary = strings.ToLower(strings.Trim(summary, "-"))
	if utf8.RuneCountInString(summary) > 30 {
		summary = string([]rune(summary)[:30])
	}

	return fmt.Sprintf("%s-%s-%s-%s.md",
		rec.Timestamp.Format("2006-01-02"), rec.Type, scope, summary)
}

var conceptStopWords = map[string]bool{
	"The": true, "This": true, "That": true, "When": true,
	"Where": true, "How": true, "What": true, "Why": true,
}

// ExtractConcepts pulls wikilink candidates from the summary and body:
// capitalized words (minus a stop list) and mixed-case identifiers.
// Deduplicated, sorted, capped at five.
func ExtractConcepts(rec *CommitRecord) []string {
	text := rec.Summary
	if rec.Body != "" {
		text += " " + rec.Body
	}

	var concepts []string
	for _, word := range strings.Fields(text) {
		clean := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		first, _ := utf8.DecodeRuneInString(clean)
		if len(clean) > 2 && unicode.IsUpper(first) && !conceptStopWords[clean] {
			concepts = append(concepts, clean)
		}

		// camelCase identifiers: lowercase start with an interior uppercase.
		if unicode.IsLower(first) && strings.ContainsFunc(clean, unicode.IsUpper) {
			concepts = append(concepts, clean)
		}
	}

	concepts = dedupSorted(concepts)
	if len(concepts) > 5 {
		concepts = concepts[:5]
	}
	return concepts
}

type noteData struct {
	SHA      string
	Type     string
	Scope    string
	Summary  string
	Body     string
	Memory   string
	Context  string
	Date     string
	Project  string
	Refs     []string
	Tags     []string
	Concepts []string
}

var noteTemplate = template.Must(template.New("note").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(noteTemplateText))

const noteTemplateText = `---
id: {{.SHA}}
type: {{.Type}}
scope: {{.Scope}}
date: {{.Date}}
tags: {{join .Tags ", "}}
memory: "{{.Memory}}"
project: {{.Project}}
refs: [{{join .Refs ", "}}]
aliases: ["{{.Summary}}"]
---

# {{.Type}}{{if .Scope}}({{.Scope}}){{end}}: {{.Summary}}

## What Changed
{{if .Body}}{{.Body}}{{else}}> Pure knowledge commit (no code changes){{end}}

## Key Insight
{{.Memory}}
{{if .Context}}
## Context
{{.Context}}
{{end}}{{if .Concepts}}
## Related Concepts
{{range .Concepts}}- [[{{.}}]]
{{end}}{{end}}{{if .Refs}}
## References
{{range .Refs}}- {{.}}
{{end}}{{end}}
---
*Commit: {{.SHA}} | Date: {{.Date}}*
`
