package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() Payload {
	return Payload{
		Commits: []CommitRecord{
			{SHA: "s1", Timestamp: "2024-03-01T12:00:00Z", RepoID: "r", Author: AuthorMeta{ID: "ana"},
				Files: []FileChange{{Path: "src/a.ts", Type: ChangeAdd}}},
			{SHA: "s2", Timestamp: "2024-03-01T12:00:01Z", RepoID: "r", Author: AuthorMeta{ID: "bob"},
				Files: []FileChange{{Path: "src/b.ts", Type: ChangeAdd}}},
			{SHA: "s3", Timestamp: "2024-03-01T12:00:02Z", RepoID: "r", Author: AuthorMeta{ID: "ana"},
				Files: []FileChange{{Path: "docs/readme.md", Type: ChangeAdd}}},
		},
		Contributors: []ContributorMeta{
			{ID: "ana", Name: "Ana"},
			{ID: "bob", Name: "Bob"},
		},
	}
}

func TestContributors_HighlightRestoresExactOpacity(t *testing.T) {
	e := New(testPayload(), DefaultSettings())
	e.Seek(ts(2))

	// Decay the set a little so opacities are non-trivial.
	e.contribs.tick(1500*time.Millisecond, 4*time.Second)

	before := map[string]float64{}
	for _, c := range e.Contributors() {
		before[c.ID] = c.Opacity
	}

	e.HighlightContributor("ana")
	dimmed := e.Contributors()
	for _, c := range dimmed {
		if c.ID == "ana" {
			assert.True(t, c.IsHighlighted)
			assert.Equal(t, before[c.ID], c.Opacity)
		} else {
			assert.InDelta(t, before[c.ID]*highlightDim, c.Opacity, 1e-12)
		}
	}

	e.HighlightContributor("")
	for _, c := range e.Contributors() {
		assert.Equal(t, before[c.ID], c.Opacity, "contributor %s must return to its exact prior opacity", c.ID)
		assert.False(t, c.IsHighlighted)
	}
}

func TestContributors_IdleDecayStopsAtFloor(t *testing.T) {
	s := newContribSet([]ContributorMeta{{ID: "x", Name: "X"}})
	for i := 0; i < 100; i++ {
		s.tick(time.Second, 4*time.Second)
	}
	assert.Equal(t, contributorFloor, s.list[0].opacity)
}

func TestContributors_TouchResetsOpacityAndTarget(t *testing.T) {
	s := newContribSet([]ContributorMeta{{ID: "x", Name: "X"}})
	s.tick(10*time.Second, 4*time.Second)
	require.Equal(t, contributorFloor, s.list[0].opacity)

	s.touch("x", vec{X: 100, Y: 50})
	assert.Equal(t, 1.0, s.list[0].opacity)
	assert.Equal(t, vec{X: 100, Y: 50}, s.list[0].target)
	assert.Equal(t, 1.0, s.list[0].beam)

	// Position eases toward the target over frames.
	start := s.list[0].pos
	s.tick(0, 4*time.Second)
	assert.Greater(t, s.list[0].pos.X, start.X)
}

func TestContributors_UnknownAuthorJoinsOnTouch(t *testing.T) {
	s := newContribSet(nil)
	s.touch("ghost", vec{})
	require.Len(t, s.list, 1)
	assert.Equal(t, "ghost", s.list[0].id)
	assert.True(t, s.list[0].visible)
}

func TestContributors_VisibilityPreservesState(t *testing.T) {
	e := New(testPayload(), DefaultSettings())
	e.Seek(ts(2))

	e.SetContributorVisible("bob", false)
	var bob Contributor
	for _, c := range e.Contributors() {
		if c.ID == "bob" {
			bob = c
		}
	}
	assert.False(t, bob.IsVisible)
	assert.Greater(t, bob.Opacity, 0.0, "historical state preserved while hidden")

	e.SetContributorVisible("bob", true)
	for _, c := range e.Contributors() {
		if c.ID == "bob" {
			assert.True(t, c.IsVisible)
		}
	}
}
