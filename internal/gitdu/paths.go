package gitdu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// ResolvePaths annotates records with the paths found in the output of
// `git rev-list --all --objects`. A line holding only an object ID resolves
// to the empty path. IDs without a record are loose objects: they are logged
// and counted, and the count is returned.
func (rs Records) ResolvePaths(r io.Reader, log *zap.Logger) (int, error) {
	loose := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, path := splitRevListLine(line)

		rec, ok := rs[id]
		if !ok {
			loose++

			log.Debug("unpacked object", zap.String("line", line))

			continue
		}

		rec.Path = path
		rec.Resolved = true
	}

	if err := scanner.Err(); err != nil {
		return loose, fmt.Errorf("reading rev-list output: %w", err)
	}

	return loose, nil
}

// splitRevListLine splits a trimmed rev-list line into the object ID and the
// path following it. Whitespace inside the path is kept.
func splitRevListLine(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}

	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}

// IgnoreSet holds paths excluded from aggregation. Matching is exact.
type IgnoreSet map[string]struct{}

// Contains reports whether path is ignored.
func (s IgnoreSet) Contains(path string) bool {
	_, ok := s[path]

	return ok
}

// ParseIgnoreList reads one path per line. Blank lines are skipped and a
// leading "./" is removed.
func ParseIgnoreList(r io.Reader) (IgnoreSet, error) {
	ignored := make(IgnoreSet)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		path := strings.TrimSpace(scanner.Text())
		path = strings.TrimPrefix(path, "./")

		if path == "" {
			continue
		}

		ignored[path] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore list: %w", err)
	}

	return ignored, nil
}

// InScope reports whether path lies inside scope: the scope itself or any
// path below it. The empty scope contains everything.
func InScope(path, scope string) bool {
	if scope == "" || path == scope {
		return true
	}

	return strings.HasPrefix(path, scope+"/")
}

// Depth is the number of "/" separators in path.
func Depth(path string) int {
	return strings.Count(path, "/")
}

// parentDir returns the directory containing path, "" for top-level paths.
func parentDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}

	return path[:i]
}
