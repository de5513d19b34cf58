package gitexec

import (
	"context"
	"strings"
	"testing"
)

func TestScope(t *testing.T) {
	tests := []struct {
		prefix string
		arg    string
		want   string
	}{
		{"", "", ""},
		{"", ".", ""},
		{"", "src", "src"},
		{"", "./src/", "src"},
		{"src", "", "src"},
		{"src", "util", "src/util"},
		{"src/util", "..", "src"},
		{"src", "..", ""},
		{"", "/docs", "docs"},
	}

	for _, tt := range tests {
		if got := Scope(tt.prefix, tt.arg); got != tt.want {
			t.Errorf("Scope(%q, %q) = %q, want %q", tt.prefix, tt.arg, got, tt.want)
		}
	}
}

func TestGitOutputReportsFailures(t *testing.T) {
	g := Git{Dir: t.TempDir(), Binary: "gitdu-no-such-binary"}

	_, err := g.RevList(context.Background())
	if err == nil {
		t.Fatal("RevList with a missing binary succeeded")
	}
	if !strings.Contains(err.Error(), "git rev-list --all --objects") {
		t.Fatalf("error = %q, want the failing command", err)
	}
}
