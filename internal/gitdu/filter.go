package gitdu

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// NoDepthLimit disables the depth filter.
const NoDepthLimit = math.MaxInt

// Filter selects which aggregated entries are reported.
type Filter struct {
	// ListFiles keeps blob nodes in directory mode.
	ListFiles bool
	// MaxDepth drops directory nodes with MaxDepth or more separators.
	MaxDepth int
	// Threshold drops entries below it when positive and above its absolute
	// value when negative. Zero disables it.
	Threshold int64
	// Scope restricts directory output to a subtree.
	Scope string
}

// keepSize applies the signed threshold to an accumulated stored size.
func (f Filter) keepSize(size int64) bool {
	switch {
	case f.Threshold > 0:
		return size >= f.Threshold
	case f.Threshold < 0:
		return size <= -f.Threshold
	default:
		return true
	}
}

// Dirs returns the directory nodes passing the filter, keeping their order.
func (f Filter) Dirs(nodes []*DirNode) []*DirNode {
	kept := make([]*DirNode, 0, len(nodes))

	for _, n := range nodes {
		if !f.ListFiles && n.Kind != KindTree {
			continue
		}

		if Depth(n.Path) >= f.MaxDepth {
			continue
		}

		if !f.keepSize(n.AccStoredSize) {
			continue
		}

		if !InScope(n.Path, f.Scope) {
			continue
		}

		kept = append(kept, n)
	}

	return kept
}

// Exts returns the buckets passing the size threshold, keeping their order.
// Scope is applied while aggregating extensions and is not checked here.
func (f Filter) Exts(buckets []*ExtBucket) []*ExtBucket {
	kept := make([]*ExtBucket, 0, len(buckets))

	for _, b := range buckets {
		if f.keepSize(b.StoredSize) {
			kept = append(kept, b)
		}
	}

	return kept
}

// sizeColumn renders an 11 wide size, optionally humanized.
func sizeColumn(size int64, human bool) string {
	if human {
		return fmt.Sprintf("%11s", humanize.IBytes(uint64(max(size, 0)))) //nolint:gosec // Clamped to non-negative
	}

	return fmt.Sprintf("%11d", size)
}

// FormatDir renders a directory node as a report line.
func FormatDir(n *DirNode, human bool) string {
	return fmt.Sprintf("%s%5d %-6s /%s", sizeColumn(n.AccStoredSize, human), n.Updates, n.Kind, n.Path)
}

// FormatExt renders an extension bucket as a report line.
func FormatExt(b *ExtBucket, human bool) string {
	return fmt.Sprintf("%s%5d%9d %s", sizeColumn(b.StoredSize, human), b.DistinctFiles(), b.Updates, b.Ext)
}
