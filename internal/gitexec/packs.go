package gitexec

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// PackIndexes returns the pack-*.idx files under gitDir/objects/pack, sorted.
func PackIndexes(ctx context.Context, gitDir string) ([]string, error) {
	packDir := filepath.Join(gitDir, "objects", "pack")

	if _, err := os.Stat(packDir); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("accessing pack directory %q: %w", packDir, err)
	}

	var (
		mu      sync.Mutex // fastwalk calls back from several goroutines
		indexes []string
	)

	conf := &fastwalk.Config{
		Follow: false,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, packDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != packDir {
				return filepath.SkipDir
			}

			return nil
		}

		name := d.Name()
		if !strings.HasPrefix(name, "pack-") || filepath.Ext(name) != ".idx" {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()

		indexes = append(indexes, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing pack indexes: %w", err)
	}

	sort.Strings(indexes)

	return indexes, nil
}
