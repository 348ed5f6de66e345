package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// MemorySectionHeading starts the single managed region of a target
	// document. The legacy heading is still recognized on read.
	MemorySectionHeading       = "## SVCMS Memories"
	LegacyMemorySectionHeading = "## Memories from SVCMS"

	DefaultMemoryDocument = "CLAUDE.md"
	DefaultModuleRoot     = "src"

	newDocumentHeader = "# Project Memory"
)

// rootScopes route to the root document rather than a module directory.
var rootScopes = map[string]bool{
	"global": true, "project": true, "build": true, "ci": true,
	"chore": true, "docs": true, "test": true, "tests": true,
	"testing": true, "cleanup": true, "workflow": true,
	"development": true, "architecture": true, "authors": true,
	"roadmap": true, "memory": true, "mvp": true, "milestone": true,
}

// MergeEngine routes commit records to their target documents and splices
// new memory entries into each document's managed section.
type MergeEngine struct {
	root       string
	document   string
	moduleRoot string
	locations  map[string]string
}

func NewMergeEngine(root string, cfg *Config) *MergeEngine {
	e := &MergeEngine{
		root:       root,
		document:   DefaultMemoryDocument,
		moduleRoot: DefaultModuleRoot,
	}
	if cfg != nil {
		if cfg.Memory.Document != "" {
			e.document = cfg.Memory.Document
		}
		if cfg.Memory.ModuleRoot != "" {
			e.moduleRoot = cfg.Memory.ModuleRoot
		}
		e.locations = cfg.Locations
	}
	return e
}

// TargetPath resolves the document a record's memory belongs to. An explicit
// Location footer wins, then a configured location alias for the scope, then
// the scope-derived routing.
func (e *MergeEngine) TargetPath(rec *CommitRecord) string {
	if rec.Location != "" {
		return filepath.Join(e.root, rec.Location)
	}
	if rec.Scope == "" {
		return filepath.Join(e.root, e.document)
	}
	if alias, ok := e.locations[rec.Scope]; ok {
		return filepath.Join(e.root, alias)
	}
	if rootScopes[rec.Scope] {
		return filepath.Join(e.root, e.document)
	}
	if strings.ContainsRune(rec.Scope, '/') {
		return filepath.Join(e.root, rec.Scope, e.document)
	}
	return filepath.Join(e.root, e.moduleRoot, rec.Scope, e.document)
}

// Group buckets records with memory notes by target path. Within a bucket,
// entries are ordered newest first for rendering.
func (e *MergeEngine) Group(records []*CommitRecord) map[string][]MemoryEntry {
	buckets := make(map[string][]MemoryEntry)
	for _, rec := range records {
		if rec.Memory == "" {
			continue
		}
		path := e.TargetPath(rec)
		buckets[path] = append(buckets[path], entryFromRecord(rec))
	}

	for _, entries := range buckets {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
	}
	return buckets
}

// RenderEntry produces the fixed single-line layout for one memory entry.
func RenderEntry(entry MemoryEntry) string {
	header := entry.Type
	if entry.Scope != "" {
		header = fmt.Sprintf("%s(%s)", entry.Type, entry.Scope)
	}

	line := fmt.Sprintf("- %s: %s `%s: %s` (%s)",
		entry.Content, entry.Type, header, entry.Summary, entry.SHA)
	if len(entry.Tags) > 0 {
		line += fmt.Sprintf(" [%s]", strings.Join(entry.Tags, ", "))
	}
	return line
}

// DocumentChange describes the outcome for one target document.
type DocumentChange struct {
	Path string
	New  int
	Diff string // dry-run preview, empty on real runs
}

type SyncResult struct {
	NewMemories int
	Changes     []DocumentChange
}

// Sync merges all records into their target documents, visiting each
// document exactly once in sorted path order. In dry-run mode every read,
// dedup and render step still happens, but nothing is written; the result
// carries the same new-memory count a real run would produce, plus a diff
// preview per document. An I/O failure aborts the remaining run without
// rolling back documents already written.
func (e *MergeEngine) Sync(records []*CommitRecord, dryRun bool) (*SyncResult, error) {
	buckets := e.Group(records)

	paths := make([]string, 0, len(buckets))
	for path := range buckets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := &SyncResult{}
	for _, path := range paths {
		current, err := readDocument(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		updated, added := e.mergeDocument(current, buckets[path])
		if added == 0 {
			continue
		}

		change := DocumentChange{Path: path, New: added}
		if dryRun {
			change.Diff = previewDiff(current, updated)
		} else if err := writeDocument(path, updated); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}

		result.NewMemories += added
		result.Changes = append(result.Changes, change)
	}
	return result, nil
}

// mergeDocument splices the entries not already present into the document's
// managed section and returns the updated text with the new-entry count.
// An entry is already present iff the current text contains both its exact
// memory content and its exact identifier.
func (e *MergeEngine) mergeDocument(current string, entries []MemoryEntry) (string, int) {
	fresh := entries[:0:0]
	for _, entry := range entries {
		if strings.Contains(current, entry.Content) && strings.Contains(current, entry.SHA) {
			continue
		}
		fresh = append(fresh, entry)
	}
	if len(fresh) == 0 {
		return current, 0
	}

	rendered := make([]string, 0, len(fresh))
	for _, entry := range fresh {
		rendered = append(rendered, RenderEntry(entry))
	}

	if current == "" {
		doc := newDocumentHeader + "\n\n" + MemorySectionHeading + "\n\n" +
			strings.Join(rendered, "\n") + "\n"
		return doc, len(fresh)
	}

	lines := strings.Split(current, "\n")
	section, ok := findManagedSection(lines)
	if !ok {
		doc := strings.TrimRight(current, "\n") + "\n\n" + MemorySectionHeading + "\n\n" +
			strings.Join(rendered, "\n") + "\n"
		return doc, len(fresh)
	}

	// Prior entry lines are preserved verbatim; new entries go ahead of them.
	existing := lines[section.start+1 : section.end]
	for len(existing) > 0 && strings.TrimSpace(existing[0]) == "" {
		existing = existing[1:]
	}

	out := make([]string, 0, len(lines)+len(rendered)+1)
	out = append(out, lines[:section.start+1]...)
	out = append(out, "")
	out = append(out, rendered...)
	out = append(out, existing...)
	out = append(out, lines[section.end:]...)
	return strings.Join(out, "\n"), len(fresh)
}

// managedSection marks the single region owned by the merge engine:
// start is the heading line, end is the first line past the section.
type managedSection struct {
	start int
	end   int
}

func findManagedSection(lines []string) (managedSection, bool) {
	for i, line := range lines {
		heading := strings.TrimRight(line, " \t")
		if heading != MemorySectionHeading && heading != LegacyMemorySectionHeading {
			continue
		}

		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if isTopLevelHeading(lines[j]) {
				end = j
				break
			}
		}
		return managedSection{start: i, end: end}, true
	}
	return managedSection{}, false
}

func isTopLevelHeading(line string) bool {
	return strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "## ")
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeDocument creates parent directories on demand; this only ever runs
// on real (non-dry-run) syncs.
func writeDocument(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// previewDiff renders a compact line diff of the would-be change.
func previewDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lineIndex := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineIndex)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
