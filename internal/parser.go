package internal

import (
	"regexp"
	"strings"
	"time"
)

// Header pattern: <type>(<scope>): <summary>
var headerPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?:\s*(.+)`)

// Footer patterns, line-anchored over the whole message. First match wins.
var (
	contextPattern  = regexp.MustCompile(`(?m)^Context:\s*(.+)$`)
	refsPattern     = regexp.MustCompile(`(?m)^Refs?:\s*(.+)$`)
	memoryPattern   = regexp.MustCompile(`(?m)^Memory:\s*(.+)$`)
	locationPattern = regexp.MustCompile(`(?m)^Location:\s*(.+)$`)
	tagsPattern     = regexp.MustCompile(`(?m)^Tags?:\s*(.+)$`)
)

var footerLabels = []string{
	"Context:", "Refs:", "Ref:", "Memory:", "Location:", "Tags:", "Tag:",
}

// allowedTypes is the fixed ingestion allow-list: only these header types
// produce a CommitRecord. It is deliberately independent of the classifier's
// configurable categories (see Classifier).
var allowedTypes = map[string]bool{
	// Conventional Commits
	"feat": true, "fix": true, "fixed": true, "docs": true, "style": true,
	"refactor": true, "perf": true, "test": true, "build": true, "ci": true,
	"chore": true,
	// SVCMS knowledge types
	"learned": true, "insight": true, "context": true, "decision": true,
	"decided": true, "memory": true,
	// SVCMS collaboration types
	"discussed": true, "explored": true, "attempted": true,
	// SVCMS meta types
	"workflow": true, "preference": true, "pattern": true,
}

// ParseCommitMessage turns one raw commit message into a CommitRecord.
// The second return value reports whether the message qualifies; malformed
// or disallowed input is a negative result, never an error.
func ParseCommitMessage(sha, message string, timestamp time.Time) (*CommitRecord, bool) {
	lines := strings.Split(message, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, false
	}

	m := headerPattern.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, false
	}

	commitType, scope, summary := m[1], m[2], m[3]
	if !allowedTypes[commitType] {
		return nil, false
	}

	return &CommitRecord{
		SHA:       sha,
		Type:      commitType,
		Scope:     scope,
		Summary:   summary,
		Body:      extractBody(lines),
		Memory:    extractField(message, memoryPattern),
		Location:  extractField(message, locationPattern),
		Context:   extractField(message, contextPattern),
		Refs:      extractList(message, refsPattern),
		Tags:      extractList(message, tagsPattern),
		Timestamp: timestamp,
	}, true
}

// bodyState drives the per-line scan between the header and the footers.
type bodyState int

const (
	stateSeparator bodyState = iota // waiting for the blank line after the header
	stateBody                       // collecting body lines
	stateFooters                    // hit a footer label, body is over
)

func extractBody(lines []string) string {
	state := stateSeparator
	var body []string

	for _, line := range lines[1:] {
		switch state {
		case stateSeparator:
			if strings.TrimSpace(line) == "" {
				state = stateBody
			}
		case stateBody:
			if isFooterLine(line) {
				state = stateFooters
			} else {
				body = append(body, line)
			}
		}
		if state == stateFooters {
			break
		}
	}

	if len(body) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

func isFooterLine(line string) bool {
	for _, label := range footerLabels {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}

func extractField(message string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractList(message string, pattern *regexp.Regexp) []string {
	raw := extractField(message, pattern)
	if raw == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
