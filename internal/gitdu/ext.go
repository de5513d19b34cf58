package gitdu

import (
	"encoding/json"
	"path"
	"sort"
)

// ExtBucket holds the totals of every blob sharing a filename extension.
type ExtBucket struct {
	// Ext is the extension including the leading dot, "" for none.
	Ext string `json:"ext"`
	// Files is the set of distinct paths seen.
	Files map[string]struct{} `json:"-"`
	// Size is the uncompressed size of every version.
	Size int64 `json:"size"`
	// StoredSize is the pack size of every version.
	StoredSize int64 `json:"stored_size"`
	// Updates is the number of blob versions seen.
	Updates int `json:"updates"`
}

// DistinctFiles is the number of distinct paths in the bucket.
func (b *ExtBucket) DistinctFiles() int {
	return len(b.Files)
}

// MarshalJSON adds the distinct file count to the bucket fields.
func (b *ExtBucket) MarshalJSON() ([]byte, error) {
	type bucket ExtBucket

	return json.Marshal(struct {
		*bucket

		DistinctFiles int `json:"distinct_files"`
	}{(*bucket)(b), b.DistinctFiles()})
}

// Extension returns the suffix of the final path element starting at its
// last dot, or "" when there is none.
func Extension(p string) string {
	return path.Ext(p)
}

// AggregateExtensions groups resolved blob records inside scope by
// extension. Buckets are ordered by ascending stored size.
func AggregateExtensions(records Records, scope string, ignored IgnoreSet) []*ExtBucket {
	buckets := make(map[string]*ExtBucket)

	for _, r := range records.Sorted() {
		if r.Kind != KindBlob || !r.Resolved || ignored.Contains(r.Path) {
			continue
		}

		if !InScope(r.Path, scope) {
			continue
		}

		ext := Extension(r.Path)

		b, ok := buckets[ext]
		if !ok {
			b = &ExtBucket{Ext: ext, Files: make(map[string]struct{})}
			buckets[ext] = b
		}

		b.Files[r.Path] = struct{}{}
		b.Size += r.Size
		b.StoredSize += r.StoredSize
		b.Updates++
	}

	sorted := make([]*ExtBucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StoredSize != sorted[j].StoredSize {
			return sorted[i].StoredSize < sorted[j].StoredSize
		}

		return sorted[i].Ext < sorted[j].Ext
	})

	return sorted
}
