package gitx

import (
	"path/filepath"
	"testing"
)

func TestCache_RoundTrip(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "histories.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := CacheKey("/tmp/repo", "abc123")
	if _, ok := c.Load(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	commits := []Commit{
		{SHA: "abc123", Date: "2024-01-01T00:00:00Z", AuthorName: "Ana", AuthorEmail: "ana@example.com",
			Files: []File{{Path: "main.go", Status: "A", Additions: 12}}},
	}
	if err := c.Store(key, commits); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Load(key)
	if !ok {
		t.Fatal("expected hit after store")
	}
	if len(got) != 1 || got[0].SHA != "abc123" || got[0].Files[0].Path != "main.go" {
		t.Fatalf("unexpected cached history: %+v", got)
	}

	// A different HEAD is a different key, so stale entries never match.
	if _, ok := c.Load(CacheKey("/tmp/repo", "def456")); ok {
		t.Fatal("expected miss for new head")
	}
}
