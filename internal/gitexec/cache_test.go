package gitexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestCacheRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef0123456789abcdef01234567 blob 10 5 12\n"), 100)

	for _, name := range []string{"verify-pack.txt", "verify-pack.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			cache := Cache(filepath.Join(t.TempDir(), name))

			if _, ok, err := cache.Read(); err != nil || ok {
				t.Fatalf("Read before Write = ok %v err %v, want miss", ok, err)
			}

			if err := cache.Write(data); err != nil {
				t.Fatalf("Write: %v", err)
			}

			got, ok, err := cache.Read()
			if err != nil || !ok {
				t.Fatalf("Read = ok %v err %v", ok, err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("Read returned %d bytes, want %d", len(got), len(data))
			}

			raw, err := os.ReadFile(string(cache))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if compressed := !bytes.Equal(raw, data); compressed != cache.compressed() {
				t.Fatalf("file compressed = %v, want %v", compressed, cache.compressed())
			}
		})
	}
}

func TestCacheDisabled(t *testing.T) {
	var cache Cache

	if _, ok, err := cache.Read(); ok || err != nil {
		t.Fatalf("Read = ok %v err %v, want miss", ok, err)
	}
	if err := cache.Write([]byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestSourceUsesCache(t *testing.T) {
	dir := t.TempDir()

	verifyPack := Cache(filepath.Join(dir, "vp.txt"))
	if err := verifyPack.Write([]byte("cached verify-pack")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	src := Source{
		Git:             Git{Dir: dir, Binary: "gitdu-no-such-binary"},
		VerifyPackCache: verifyPack,
		RevListCache:    Cache(filepath.Join(dir, "rl.txt")),
		Log:             zap.NewNop(),
	}

	got, err := src.VerifyPack(context.Background())
	if err != nil {
		t.Fatalf("VerifyPack: %v", err)
	}
	if string(got) != "cached verify-pack" {
		t.Fatalf("VerifyPack = %q, want cached output", got)
	}

	// Missing cache runs git, which fails here, and nothing is written.
	if _, err := src.RevList(context.Background()); err == nil {
		t.Fatal("RevList without cache and git succeeded")
	}
	if _, err := os.Stat(string(src.RevListCache)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rev-list cache written after failure: %v", err)
	}
}

func TestCacheLoadWritesFetchedOutput(t *testing.T) {
	cache := Cache(filepath.Join(t.TempDir(), "rl.txt.zst"))
	calls := 0

	fetch := func(context.Context) ([]byte, error) {
		calls++

		return []byte("fetched"), nil
	}

	for i := 0; i < 2; i++ {
		got, err := cache.load(context.Background(), "rev-list", zap.NewNop(), fetch)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(got) != "fetched" {
			t.Fatalf("load = %q", got)
		}
	}

	if calls != 1 {
		t.Fatalf("fetch called %d times, want 1", calls)
	}
}
