package cli

import (
	"testing"

	"github.com/mitiskuma/gitburst/internal/engine"
	"github.com/mitiskuma/gitburst/internal/gitx"
)

func TestBuildPayload_MapsHistoryAndDedupesContributors(t *testing.T) {
	histories := []repoHistory{
		{root: "/work/app", commits: []gitx.Commit{
			{SHA: "c1", Date: "2024-01-01T10:00:00Z", AuthorName: "Ana", AuthorEmail: "Ana@Example.com",
				Files: []gitx.File{{Path: "main.go", Status: "A", Additions: 10}}},
			{SHA: "c2", Date: "2024-01-02T10:00:00Z", AuthorName: "Ana Lima", AuthorEmail: "ana@example.com",
				Files: []gitx.File{{Path: "main.go", Status: "M", Additions: 2, Deletions: 1}}},
		}},
		{root: "/work/lib", commits: []gitx.Commit{
			{SHA: "c3", Date: "2024-01-03T10:00:00Z", AuthorName: "Bob", AuthorEmail: "bob@example.com",
				Files: []gitx.File{{Path: "old.go", OldPath: "ancient.go", Status: "R"}}},
		}},
	}

	p := buildPayload(histories)

	if len(p.Repositories) != 2 || p.Repositories[0].ID != "app" || p.Repositories[1].ID != "lib" {
		t.Fatalf("unexpected repositories: %+v", p.Repositories)
	}
	// Email casing differs but identity is one contributor.
	if len(p.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %+v", p.Contributors)
	}
	if p.Contributors[0].ID != "ana@example.com" {
		t.Fatalf("contributor id = %q, want lowercased email", p.Contributors[0].ID)
	}

	if len(p.Commits) != 3 {
		t.Fatalf("expected 3 commit records, got %d", len(p.Commits))
	}
	if p.Commits[2].RepoID != "lib" {
		t.Fatalf("commit repo = %q, want lib", p.Commits[2].RepoID)
	}
	ren := p.Commits[2].Files[0]
	if ren.Type != engine.ChangeRename || ren.OldPath != "ancient.go" {
		t.Fatalf("unexpected rename mapping: %+v", ren)
	}
}

func TestChangeType(t *testing.T) {
	cases := []struct {
		status string
		want   engine.ChangeType
	}{
		{"A", engine.ChangeAdd},
		{"M", engine.ChangeModify},
		{"D", engine.ChangeDelete},
		{"R", engine.ChangeRename},
		{"", engine.ChangeModify},
	}
	for _, tc := range cases {
		if got := changeType(tc.status); got != tc.want {
			t.Errorf("changeType(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestContributorID_FallsBackToName(t *testing.T) {
	c := gitx.Commit{AuthorName: "Anonymous"}
	if got := contributorID(c); got != "anonymous" {
		t.Fatalf("contributorID = %q, want anonymous", got)
	}
}
