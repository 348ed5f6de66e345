package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// SyncService drives the whole pipeline: collect history, parse records,
// merge memories, and mirror notes into the vault when one is configured.
type SyncService struct {
	root      string
	cfg       *Config
	sourceFor func(root string) (*CommitSource, error)
}

func NewSyncService(
	root string,
	cfg *Config,
	sourceFor func(root string) (*CommitSource, error),
) *SyncService {
	return &SyncService{
		root:      root,
		cfg:       cfg,
		sourceFor: sourceFor,
	}
}

type SyncOptions struct {
	Depth  int       // 0 means the configured default
	Since  time.Time // zero means no date cutoff
	DryRun bool
}

type SyncReport struct {
	Scanned     int // commits walked
	Qualifying  int // commits that parsed as SVCMS records
	NewMemories int
	VaultNotes  int
	DryRun      bool
	Changes     []DocumentChange
}

func (s *SyncService) Sync(ctx context.Context, opts SyncOptions) (*SyncReport, error) {
	records, scanned, err := s.collectRecords(ctx, opts.Depth, opts.Since)
	if err != nil {
		return nil, err
	}

	dryRun := opts.DryRun || s.cfg.Sync.DryRunEnabled()

	engine := NewMergeEngine(s.root, s.cfg)
	result, err := engine.Sync(records, dryRun)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{
		Scanned:     scanned,
		Qualifying:  len(records),
		NewMemories: result.NewMemories,
		DryRun:      dryRun,
		Changes:     result.Changes,
	}

	if s.cfg.Vault.Path != "" && !dryRun {
		vault, err := NewVault(s.cfg.Vault, filepath.Base(s.root))
		if err != nil {
			return nil, err
		}
		notes, err := vault.SyncNotes(records)
		if err != nil {
			return nil, fmt.Errorf("sync vault notes: %w", err)
		}
		report.VaultNotes = notes
	}

	return report, nil
}

func (s *SyncService) collectRecords(ctx context.Context, depth int, since time.Time) ([]*CommitRecord, int, error) {
	source, err := s.sourceFor(s.root)
	if err != nil {
		return nil, 0, err
	}

	if depth == 0 {
		depth = s.cfg.Sync.DefaultDepth
	}

	raw, err := source.Collect(ctx, depth, since)
	if err != nil {
		return nil, 0, fmt.Errorf("collect commits: %w", err)
	}

	var records []*CommitRecord
	for _, rc := range raw {
		if rec, ok := ParseCommitMessage(rc.SHA, rc.Message, rc.Timestamp); ok {
			records = append(records, rec)
		}
	}
	return records, len(raw), nil
}

// StatsService summarizes the SVCMS commits found in history.
type StatsService struct {
	root      string
	cfg       *Config
	sourceFor func(root string) (*CommitSource, error)
}

func NewStatsService(
	root string,
	cfg *Config,
	sourceFor func(root string) (*CommitSource, error),
) *StatsService {
	return &StatsService{
		root:      root,
		cfg:       cfg,
		sourceFor: sourceFor,
	}
}

type TypeCount struct {
	Type  string
	Count int
}

type Stats struct {
	Scanned    int
	Total      int // qualifying commits
	WithMemory int
	ByType     []TypeCount // descending count, ties by name
}

func (s *StatsService) Stats(ctx context.Context, depth int) (*Stats, error) {
	sync := SyncService{root: s.root, cfg: s.cfg, sourceFor: s.sourceFor}
	records, scanned, err := sync.collectRecords(ctx, depth, time.Time{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{Scanned: scanned, Total: len(records)}

	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Type]++
		if rec.Memory != "" {
			stats.WithMemory++
		}
	}

	for commitType, count := range counts {
		stats.ByType = append(stats.ByType, TypeCount{Type: commitType, Count: count})
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Count != stats.ByType[j].Count {
			return stats.ByType[i].Count > stats.ByType[j].Count
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})

	return stats, nil
}

// TypeService is the validation and suggestion surface over the classifier.
type TypeService struct {
	classifier *Classifier
}

func NewTypeService(cfg CommitTypesConfig) *TypeService {
	return &TypeService{classifier: NewClassifier(cfg)}
}

// Check reports whether the token is valid for the scope; when it is not,
// it also returns alternative suggestions.
func (s *TypeService) Check(token, scope string) (bool, []string) {
	if s.classifier.IsValid(token, scope) {
		return true, nil
	}
	return false, s.classifier.SuggestAlternatives(token, scope)
}

func (s *TypeService) ValidTypes(scope string) []string {
	return s.classifier.ValidTypesForScope(scope)
}

func (s *TypeService) Parse(token string) ParsedType {
	return s.classifier.Parse(token)
}
