package engine

import (
	"fmt"
	"sort"
	"time"
)

// ChangeType classifies what happened to a file in a commit.
type ChangeType int

const (
	ChangeAdd ChangeType = iota
	ChangeModify
	ChangeDelete
	ChangeRename
)

// FileChange is a single file touched by a commit.
// OldPath is set only for renames.
type FileChange struct {
	Path      string
	OldPath   string
	Type      ChangeType
	Additions int
	Deletions int
}

// AuthorMeta identifies the author of a raw commit record.
type AuthorMeta struct {
	ID        string
	Name      string
	AvatarRef string
}

// CommitRecord is a raw, host-supplied commit. Timestamps arrive as
// ISO-8601 strings and are validated during timeline construction.
type CommitRecord struct {
	SHA       string
	Timestamp string
	RepoID    string
	Author    AuthorMeta
	Files     []FileChange
}

// RepositoryMeta describes one repository feeding the replay.
type RepositoryMeta struct {
	ID   string
	Name string
	Root string
}

// ContributorMeta describes a known contributor.
type ContributorMeta struct {
	ID        string
	Name      string
	AvatarRef string
}

// Payload is the engine construction input.
type Payload struct {
	Commits       []CommitRecord
	Repositories  []RepositoryMeta
	Contributors  []ContributorMeta
}

// CommitEvent is a normalized, timestamped unit of replay. Immutable
// once the timeline is built.
type CommitEvent struct {
	SHA           string
	Timestamp     time.Time
	RepoID        string
	ContributorID string
	Files         []FileChange
}

// Timeline is a stable time-ordered event stream plus the warnings
// collected while normalizing it.
type Timeline struct {
	Events   []CommitEvent
	Warnings []string
}

// BuildTimeline normalizes raw commit records into a stable-sorted
// event stream. Records with an empty sha or an unparseable timestamp
// are dropped with a collected warning; construction never fails for
// partially bad data.
func BuildTimeline(records []CommitRecord) *Timeline {
	t := &Timeline{Events: make([]CommitEvent, 0, len(records))}
	for i, rec := range records {
		if rec.SHA == "" {
			t.Warnings = append(t.Warnings, fmt.Sprintf("record %d: empty sha, dropped", i))
			continue
		}
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil {
			t.Warnings = append(t.Warnings, fmt.Sprintf("record %d (%s): bad timestamp %q, dropped", i, rec.SHA, rec.Timestamp))
			continue
		}
		t.Events = append(t.Events, CommitEvent{
			SHA:           rec.SHA,
			Timestamp:     ts,
			RepoID:        rec.RepoID,
			ContributorID: rec.Author.ID,
			Files:         append([]FileChange(nil), rec.Files...),
		})
	}
	// Ties keep original order so replay stays deterministic.
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].Timestamp.Before(t.Events[j].Timestamp)
	})
	return t
}

// filterEvents returns the events belonging to repoID, or all events
// when repoID is empty (combined view). The returned slice shares the
// timeline's backing events, which are immutable.
func filterEvents(events []CommitEvent, repoID string) []CommitEvent {
	if repoID == "" {
		return events
	}
	out := make([]CommitEvent, 0, len(events))
	for _, ev := range events {
		if ev.RepoID == repoID {
			out = append(out, ev)
		}
	}
	return out
}
