package internal

import (
	"errors"
	"time"
)

var (
	ErrNoRepository = errors.New("not a git repository")
	ErrNoVault      = errors.New("vault not configured")
)

// RawCommit is one entry from the commit history: a short identifier, the
// full message text, and the author timestamp. Parsing is not its job.
type RawCommit struct {
	SHA       string
	Message   string
	Timestamp time.Time
}

// CommitRecord is the structured form of one SVCMS commit message.
// Type and Summary are always non-empty; everything else is optional,
// with the empty string (or nil slice) meaning absent.
type CommitRecord struct {
	SHA       string
	Type      string
	Scope     string
	Summary   string
	Body      string
	Memory    string
	Location  string
	Context   string
	Refs      []string
	Tags      []string
	Timestamp time.Time
}

// MemoryEntry is the rendering-side projection of a CommitRecord, grouped
// per target document by the merge engine. Recreated on every run.
type MemoryEntry struct {
	Content   string
	SHA       string
	Type      string
	Scope     string
	Summary   string
	Tags      []string
	Timestamp time.Time
}

func entryFromRecord(rec *CommitRecord) MemoryEntry {
	return MemoryEntry{
		Content:   rec.Memory,
		SHA:       rec.SHA,
		Type:      rec.Type,
		Scope:     rec.Scope,
		Summary:   rec.Summary,
		Tags:      rec.Tags,
		Timestamp: rec.Timestamp,
	}
}
