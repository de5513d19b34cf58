package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// zstdSuffix marks cache files stored compressed.
const zstdSuffix = ".zst"

// Cache is a file holding the raw output of a git command.
// An empty path disables caching.
type Cache string

// compressed reports whether the cache file is zstd encoded.
func (c Cache) compressed() bool {
	return strings.HasSuffix(string(c), zstdSuffix)
}

// Read returns the cached output. ok is false when the file does not exist.
func (c Cache) Read() (data []byte, ok bool, err error) {
	if c == "" {
		return nil, false, nil
	}

	raw, err := os.ReadFile(string(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("reading cache %q: %w", string(c), err)
	}

	if !c.compressed() {
		return raw, true, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false, err
	}
	defer dec.Close()

	data, err = dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing cache %q: %w", string(c), err)
	}

	return data, true, nil
}

// Write stores data in the cache file.
func (c Cache) Write(data []byte) error {
	if c == "" {
		return nil
	}

	f, err := os.Create(string(c))
	if err != nil {
		return fmt.Errorf("creating cache %q: %w", string(c), err)
	}

	var w io.Writer = f

	var enc *zstd.Encoder

	if c.compressed() {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()

			return err
		}

		w = enc
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		if enc != nil {
			enc.Close()
		}

		f.Close()

		return fmt.Errorf("writing cache %q: %w", string(c), err)
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()

			return fmt.Errorf("writing cache %q: %w", string(c), err)
		}
	}

	return f.Close()
}

// load returns the cached output or, when there is none, runs fetch and
// caches its result.
func (c Cache) load(ctx context.Context, name string, log *zap.Logger, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	data, ok, err := c.Read()
	if err != nil {
		return nil, err
	}

	if ok {
		log.Debug("reading cached output", zap.String("command", name), zap.String("file", string(c)))

		return data, nil
	}

	log.Debug("running git", zap.String("command", name))

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.Write(data); err != nil {
		return nil, err
	}

	return data, nil
}

// Source provides the git reports, going through the cache files when set.
type Source struct {
	Git Git
	// VerifyPackCache caches the verify-pack output.
	VerifyPackCache Cache
	// RevListCache caches the rev-list output.
	RevListCache Cache
	Log          *zap.Logger
}

// VerifyPack returns the verify-pack output.
func (s Source) VerifyPack(ctx context.Context) ([]byte, error) {
	return s.VerifyPackCache.load(ctx, "verify-pack", s.logger(), s.Git.VerifyPack)
}

// RevList returns the rev-list output.
func (s Source) RevList(ctx context.Context) ([]byte, error) {
	return s.RevListCache.load(ctx, "rev-list", s.logger(), s.Git.RevList)
}

func (s Source) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}

	return s.Log
}
