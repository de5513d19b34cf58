// Package gitexec runs git to produce the raw reports gitdu aggregates.
package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
)

// Git runs git commands inside a working directory.
type Git struct {
	// Dir is the working directory, "" for the current one.
	Dir string
	// Binary is the git executable, "git" when empty.
	Binary string
}

// output runs git and returns its stdout. Failures carry git's stderr.
func (g Git) output(ctx context.Context, args ...string) ([]byte, error) {
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}

	gitArgs := args
	if strings.TrimSpace(g.Dir) != "" {
		gitArgs = append([]string{"-C", g.Dir}, args...)
	}

	cmd := exec.CommandContext(ctx, binary, gitArgs...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}

	return stdout.Bytes(), nil
}

// GitDir returns the absolute path of the repository's git directory.
func (g Git) GitDir(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}

	dir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(g.Dir, dir)
	}

	return filepath.Abs(dir)
}

// TopLevel returns the root of the working tree.
func (g Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// Prefix returns the working directory relative to the top level, slash
// separated and without a trailing slash. It is "" at the top level.
func (g Git) Prefix(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(strings.TrimSpace(string(out)), "/"), nil
}

// VerifyPack runs `git verify-pack -v` over every pack index of the
// repository. A repository without packs yields empty output.
func (g Git) VerifyPack(ctx context.Context) ([]byte, error) {
	gitDir, err := g.GitDir(ctx)
	if err != nil {
		return nil, err
	}

	indexes, err := PackIndexes(ctx, gitDir)
	if err != nil {
		return nil, err
	}

	if len(indexes) == 0 {
		return nil, nil
	}

	return g.output(ctx, append([]string{"verify-pack", "-v"}, indexes...)...)
}

// RevList runs `git rev-list --all --objects`.
func (g Git) RevList(ctx context.Context) ([]byte, error) {
	return g.output(ctx, "rev-list", "--all", "--objects")
}

// Scope joins arg to the current prefix inside the repository. The result is
// cleaned, slash separated, has no leading slash and is "" for the top level.
func Scope(prefix, arg string) string {
	scope := path.Join(prefix, filepath.ToSlash(arg))
	scope = strings.TrimPrefix(scope, "/")

	if scope == "." {
		return ""
	}

	return scope
}
