package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from dir looking for a .git entry and returns
// the containing directory.
func FindProjectRoot(dir string) (string, error) {
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (no .git found above %s)", ErrNoRepository, dir)
		}
		dir = parent
	}
}
