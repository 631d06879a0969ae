package core

import (
	"testing"
)

func TestIDFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "simple path", path: "notes/invoice.md"},
		{name: "empty path", path: ""},
		{name: "nested path", path: "a/b/c/d/e/f/g.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromPath(tt.path)
			id2 := IDFromPath(tt.path)
			if id1 != id2 {
				t.Errorf("IDFromPath() produced different IDs for same path: %s vs %s", id1, id2)
			}
			if len(id1) != 32 {
				t.Errorf("IDFromPath() length = %d, want 32 hex chars", len(id1))
			}
		})
	}
}

func TestIDFromPath_Different(t *testing.T) {
	if IDFromPath("notes/a.md") == IDFromPath("notes/b.md") {
		t.Errorf("IDFromPath() produced same ID for different paths")
	}
}

func TestContentHash(t *testing.T) {
	h := ContentHash("hello world")
	if len(h) != 64 {
		t.Errorf("ContentHash() length = %d, want 64 hex chars", len(h))
	}
	if h != ContentHash("hello world") {
		t.Errorf("ContentHash() is not deterministic")
	}
	if h == ContentHash("hello world!") {
		t.Errorf("ContentHash() collided for different content")
	}
}
