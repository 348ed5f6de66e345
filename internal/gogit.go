package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ShortSHALength matches what git log prints by default.
const ShortSHALength = 7

// CommitSource reads commit history from the project repository. It never
// parses messages; that is the parser's job.
type CommitSource struct {
	repo *git.Repository
	root string
}

func OpenCommitSource(root string) (*CommitSource, error) {
	gitPath := filepath.Join(root, ".git")
	if _, err := os.Stat(gitPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, root)
	}

	fs := osfs.New(gitPath)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(root)

	repo, err := git.Open(storage, wt)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &CommitSource{repo: repo, root: root}, nil
}

// Collect walks history from HEAD, newest first. It stops after depth
// commits when depth > 0, and at the first commit older than since when
// since is set.
func (s *CommitSource) Collect(ctx context.Context, depth int, since time.Time) ([]RawCommit, error) {
	iter, err := s.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []RawCommit
	count := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth > 0 && count >= depth {
			return io.EOF
		}
		if !since.IsZero() && c.Author.When.Before(since) {
			return io.EOF
		}

		commits = append(commits, RawCommit{
			SHA:       c.Hash.String()[:ShortSHALength],
			Message:   c.Message,
			Timestamp: c.Author.When,
		})
		count++
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return commits, nil
}
