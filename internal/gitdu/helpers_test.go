package gitdu

import (
	"fmt"
	"testing"
)

// testID returns a 40 character object ID derived from n.
func testID(n int) string {
	return fmt.Sprintf("%040x", n)
}

// resolved builds a record with a resolved path.
func resolved(n int, kind Kind, path string, size, stored int64) *Record {
	return &Record{
		ID:         testID(n),
		Kind:       kind,
		Size:       size,
		StoredSize: stored,
		Path:       path,
		Resolved:   true,
	}
}

// recordsOf indexes records by ID.
func recordsOf(t *testing.T, recs ...*Record) Records {
	t.Helper()

	records := make(Records, len(recs))
	for _, r := range recs {
		if _, dup := records[r.ID]; dup {
			t.Fatalf("duplicate test record %s", r.ID)
		}

		records[r.ID] = r
	}

	return records
}

// nodeByPath indexes nodes by path.
func nodeByPath(nodes []*DirNode) map[string]*DirNode {
	byPath := make(map[string]*DirNode, len(nodes))
	for _, n := range nodes {
		byPath[n.Path] = n
	}

	return byPath
}
