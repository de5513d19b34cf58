package gitdu

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Kind is the git object type reported by verify-pack.
type Kind string

// Object kinds known to the aggregators.
const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

// maxLineSize bounds a single report line. rev-list paths can be long.
const maxLineSize = 1 << 20

// verifyPackLine matches one object line of `git verify-pack -v`.
// Delta entries carry two extra fields: the chain depth and the base object.
var verifyPackLine = regexp.MustCompile(
	`^([0-9a-f]{64}|[0-9a-f]{40})\s+(\w+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+(\d+)\s+([0-9a-f]{64}|[0-9a-f]{40}))?`,
)

// Record is a single packed object.
type Record struct {
	// ID is the object hash.
	ID string `json:"id"`
	// Kind is the object type.
	Kind Kind `json:"kind"`
	// Size is the uncompressed object size.
	Size int64 `json:"size"`
	// StoredSize is the size of the object inside the pack.
	StoredSize int64 `json:"stored_size"`
	// Offset is the position of the object inside its pack.
	Offset int64 `json:"offset"`
	// Depth is the delta chain depth, 0 for non-delta objects.
	Depth int `json:"depth,omitempty"`
	// BaseID is the object this one is delta-encoded against.
	BaseID string `json:"base_id,omitempty"`
	// Path is the path reported by rev-list. Only meaningful when Resolved.
	Path string `json:"path"`
	// Resolved is false until rev-list reported the object.
	Resolved bool `json:"resolved"`
}

// String renders the record the way verify-pack printed it.
func (r *Record) String() string {
	return fmt.Sprintf("%s %s %d %d %d", r.ID, r.Kind, r.Size, r.StoredSize, r.Offset)
}

// Records indexes records by object ID.
type Records map[string]*Record

// Base returns the delta base of r when it is part of the same collection.
func (rs Records) Base(r *Record) (*Record, bool) {
	if r.BaseID == "" {
		return nil, false
	}

	base, ok := rs[r.BaseID]

	return base, ok
}

// Sorted returns the records ordered by ID.
func (rs Records) Sorted() []*Record {
	sorted := make([]*Record, 0, len(rs))
	for _, r := range rs {
		sorted = append(sorted, r)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

// Unresolved returns the records rev-list never reported, ordered by ID.
func (rs Records) Unresolved() []*Record {
	var unresolved []*Record

	for _, r := range rs.Sorted() {
		if !r.Resolved {
			unresolved = append(unresolved, r)
		}
	}

	return unresolved
}

// ParseVerifyPack parses the output of `git verify-pack -v`.
// Lines that do not describe an object are skipped. Delta bases that are not
// part of the output are logged and otherwise ignored.
func ParseVerifyPack(r io.Reader, log *zap.Logger) (Records, error) {
	records := make(Records)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		rec, ok := parseRecord(scanner.Text())
		if !ok {
			continue
		}

		records[rec.ID] = rec
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading verify-pack output: %w", err)
	}

	for _, rec := range records.Sorted() {
		if rec.BaseID == "" {
			continue
		}

		if _, ok := records.Base(rec); !ok {
			log.Debug("delta base not in pack output",
				zap.String("object", rec.ID),
				zap.String("base", rec.BaseID))
		}
	}

	return records, nil
}

// parseRecord converts one verify-pack line into a record.
func parseRecord(line string) (*Record, bool) {
	m := verifyPackLine.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	size, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, false
	}

	storedSize, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return nil, false
	}

	offset, err := strconv.ParseInt(m[5], 10, 64)
	if err != nil {
		return nil, false
	}

	rec := &Record{
		ID:         m[1],
		Kind:       Kind(m[2]),
		Size:       size,
		StoredSize: storedSize,
		Offset:     offset,
		BaseID:     m[7],
	}

	if m[6] != "" {
		depth, err := strconv.Atoi(m[6])
		if err != nil {
			return nil, false
		}

		rec.Depth = depth
	}

	return rec, true
}
