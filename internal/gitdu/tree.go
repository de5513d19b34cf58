package gitdu

import (
	"sort"

	"go.uber.org/zap"
)

// DirNode holds the totals of one path of the synthesized directory tree.
type DirNode struct {
	// Path is the slash separated path, "" for the repository root.
	Path string `json:"path"`
	// Kind is KindTree for directories and KindBlob for files.
	Kind Kind `json:"kind"`
	// Size is the uncompressed size of the records at exactly this path.
	Size int64 `json:"size"`
	// StoredSize is the pack size of the records at exactly this path.
	StoredSize int64 `json:"stored_size"`
	// Updates is the number of records at exactly this path.
	Updates int `json:"updates"`
	// AccSize is Size including every descendant.
	AccSize int64 `json:"acc_size"`
	// AccStoredSize is StoredSize including every descendant.
	AccStoredSize int64 `json:"acc_stored_size"`
	// AccUpdates is Updates including every descendant.
	AccUpdates int `json:"acc_updates"`
}

// add folds a record at exactly this path.
func (n *DirNode) add(r *Record) {
	n.Size += r.Size
	n.StoredSize += r.StoredSize
	n.Updates++

	n.addDescendant(r)
}

// addDescendant folds a record found below this path.
func (n *DirNode) addDescendant(r *Record) {
	n.AccSize += r.Size
	n.AccStoredSize += r.StoredSize
	n.AccUpdates++
}

// dirTree is a flat path keyed index of nodes.
type dirTree map[string]*DirNode

// node finds or creates the node at path.
func (t dirTree) node(path string, kind Kind) *DirNode {
	n, ok := t[path]
	if !ok {
		n = &DirNode{Path: path, Kind: kind}
		t[path] = n
	}

	if kind == KindTree {
		n.Kind = KindTree
	}

	return n
}

// AggregateDirs folds blob and tree records into a directory tree.
// Records rev-list never reported are logged and skipped, as are ignored
// paths. Every ancestor of a contributing path down to the root "" is
// synthesized. Nodes are returned ordered by path.
func AggregateDirs(records Records, ignored IgnoreSet, log *zap.Logger) []*DirNode {
	tree := make(dirTree)

	for _, r := range records.Sorted() {
		if r.Kind != KindBlob && r.Kind != KindTree {
			continue
		}

		if !r.Resolved {
			log.Info("not in rev-list", zap.Stringer("object", r))

			continue
		}

		if ignored.Contains(r.Path) {
			continue
		}

		tree.node(r.Path, r.Kind).add(r)

		for path := r.Path; path != ""; {
			path = parentDir(path)
			tree.node(path, KindTree).addDescendant(r)
		}
	}

	nodes := make([]*DirNode, 0, len(tree))
	for _, n := range tree {
		nodes = append(nodes, n)
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Path < nodes[j].Path
	})

	return nodes
}
