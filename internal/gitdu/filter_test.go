package gitdu

import (
	"reflect"
	"strings"
	"testing"
)

func sampleNodes() []*DirNode {
	return []*DirNode{
		{Path: "", Kind: KindTree, AccStoredSize: 1000},
		{Path: "README", Kind: KindBlob, StoredSize: 40, AccStoredSize: 40},
		{Path: "docs", Kind: KindTree, AccStoredSize: 60},
		{Path: "src", Kind: KindTree, AccStoredSize: 900},
		{Path: "src/main.go", Kind: KindBlob, StoredSize: 500, AccStoredSize: 500},
		{Path: "src/util", Kind: KindTree, AccStoredSize: 400},
		{Path: "src/util/str.go", Kind: KindBlob, StoredSize: 400, AccStoredSize: 400},
		{Path: "srcx", Kind: KindTree, AccStoredSize: 100},
	}
}

func paths(nodes []*DirNode) string {
	ps := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ps = append(ps, "/"+n.Path)
	}

	return strings.Join(ps, " ")
}

func TestFilterDirs(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name:   "directories only",
			filter: Filter{MaxDepth: NoDepthLimit},
			want:   "/ /docs /src /src/util /srcx",
		},
		{
			name:   "list files",
			filter: Filter{ListFiles: true, MaxDepth: NoDepthLimit},
			want:   "/ /README /docs /src /src/main.go /src/util /src/util/str.go /srcx",
		},
		{
			name:   "max depth",
			filter: Filter{ListFiles: true, MaxDepth: 1},
			want:   "/ /README /docs /src /srcx",
		},
		{
			name:   "max depth zero drops everything",
			filter: Filter{ListFiles: true, MaxDepth: 0},
			want:   "",
		},
		{
			name:   "positive threshold",
			filter: Filter{MaxDepth: NoDepthLimit, Threshold: 400},
			want:   "/ /src /src/util",
		},
		{
			name:   "negative threshold",
			filter: Filter{MaxDepth: NoDepthLimit, Threshold: -100},
			want:   "/docs /srcx",
		},
		{
			name:   "scope",
			filter: Filter{ListFiles: true, MaxDepth: NoDepthLimit, Scope: "src"},
			want:   "/src /src/main.go /src/util /src/util/str.go",
		},
		{
			name:   "scope and depth count from the root",
			filter: Filter{MaxDepth: 2, Scope: "src/util"},
			want:   "/src/util",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Dirs(sampleNodes())
			if paths(got) != tt.want {
				t.Fatalf("Dirs() = %q, want %q", paths(got), tt.want)
			}

			again := tt.filter.Dirs(got)
			if !reflect.DeepEqual(again, got) {
				t.Fatalf("filtering twice = %q, once = %q", paths(again), paths(got))
			}
		})
	}
}

func TestFilterThresholdBounds(t *testing.T) {
	nodes := []*DirNode{
		{Path: "", Kind: KindTree, AccStoredSize: 49},
		{Path: "a", Kind: KindTree, AccStoredSize: 50},
		{Path: "b", Kind: KindTree, AccStoredSize: 100},
		{Path: "c", Kind: KindTree, AccStoredSize: 101},
	}

	above := Filter{MaxDepth: NoDepthLimit, Threshold: 50}.Dirs(nodes)
	for _, n := range above {
		if n.AccStoredSize < 50 {
			t.Fatalf("threshold 50 kept %q with %d", n.Path, n.AccStoredSize)
		}
	}
	if paths(above) != "/a /b /c" {
		t.Fatalf("threshold 50 = %q", paths(above))
	}

	below := Filter{MaxDepth: NoDepthLimit, Threshold: -100}.Dirs(nodes)
	for _, n := range below {
		if n.AccStoredSize > 100 {
			t.Fatalf("threshold -100 kept %q with %d", n.Path, n.AccStoredSize)
		}
	}
	if paths(below) != "/ /a /b" {
		t.Fatalf("threshold -100 = %q", paths(below))
	}
}

func TestFilterExts(t *testing.T) {
	buckets := []*ExtBucket{
		{Ext: ".md", StoredSize: 10},
		{Ext: ".go", StoredSize: 200},
		{Ext: ".bin", StoredSize: 5000},
	}

	got := Filter{MaxDepth: 0, Threshold: 100, Scope: "ignored-here"}.Exts(buckets)
	if len(got) != 2 || got[0].Ext != ".go" || got[1].Ext != ".bin" {
		t.Fatalf("Exts(100) = %+v", got)
	}

	got = Filter{Threshold: -200}.Exts(buckets)
	if len(got) != 2 || got[0].Ext != ".md" || got[1].Ext != ".go" {
		t.Fatalf("Exts(-200) = %+v", got)
	}
}

func TestFormatDir(t *testing.T) {
	n := &DirNode{Path: "src/main.go", Kind: KindBlob, Updates: 3, AccStoredSize: 12345}

	want := "      12345    3 blob   /src/main.go"
	if got := FormatDir(n, false); got != want {
		t.Fatalf("FormatDir() = %q, want %q", got, want)
	}

	root := &DirNode{Path: "", Kind: KindTree, AccStoredSize: 2048}

	want = "    2.0 KiB    0 tree   /"
	if got := FormatDir(root, true); got != want {
		t.Fatalf("FormatDir(human) = %q, want %q", got, want)
	}
}

func TestFormatExt(t *testing.T) {
	b := &ExtBucket{
		Ext:        ".go",
		Files:      map[string]struct{}{"a.go": {}, "b.go": {}},
		StoredSize: 777,
		Updates:    12,
	}

	want := "        777    2       12 .go"
	if got := FormatExt(b, false); got != want {
		t.Fatalf("FormatExt() = %q, want %q", got, want)
	}
}
