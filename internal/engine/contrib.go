package engine

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Contributor motion and decay tunables.
const (
	// contributorFloor is the opacity an idle contributor decays
	// toward; it never fully disappears while visible.
	contributorFloor = 0.25

	// contributorMoveLerp is the per-frame fraction of the remaining
	// distance a contributor covers toward its target node.
	contributorMoveLerp = 0.12

	// highlightDim is the multiplicative factor applied to every
	// non-highlighted contributor while a highlight is active. It is
	// applied at view time only, so clearing the highlight restores
	// the exact underlying opacities.
	highlightDim = 0.3

	// beamDecay is the per-frame falloff of the beam cue shown while a
	// contributor flies toward a freshly touched node.
	beamDecay = 0.94

	// avatarRadius is the fixed world-space hit radius of an avatar.
	avatarRadius = 12.0
)

// contributor is the engine-owned state for one person.
type contributor struct {
	id        string
	name      string
	avatarRef string
	color     colorful.Color

	pos       vec
	target    vec
	hasTarget bool

	opacity float64
	beam    float64
	visible bool
}

// contribSet tracks all contributors in a deterministic slice order
// with a map for id lookup.
type contribSet struct {
	list        []contributor
	byID        map[string]int
	highlighted string
}

func newContribSet(metas []ContributorMeta) *contribSet {
	s := &contribSet{byID: make(map[string]int)}
	for _, m := range metas {
		s.add(m.ID, m.Name, m.AvatarRef)
	}
	return s
}

func (s *contribSet) add(id, name, avatarRef string) int {
	if idx, ok := s.byID[id]; ok {
		return idx
	}
	idx := len(s.list)
	s.list = append(s.list, contributor{
		id:        id,
		name:      name,
		avatarRef: avatarRef,
		color:     contributorColor(idx),
		opacity:   1,
		visible:   true,
	})
	s.byID[id] = idx
	return idx
}

// touch records an authored event: opacity snaps back to 1 and the
// contributor starts moving toward the touched node, lighting its beam.
func (s *contribSet) touch(id string, nodePos vec) {
	idx, ok := s.byID[id]
	if !ok {
		idx = s.add(id, id, "")
	}
	c := &s.list[idx]
	c.opacity = 1
	c.target = nodePos
	c.hasTarget = true
	c.beam = 1
}

// tick advances idle decay by the simulated delta and eases positions
// toward targets once per frame.
func (s *contribSet) tick(simDelta time.Duration, decay time.Duration) {
	if decay <= 0 {
		decay = time.Millisecond
	}
	fade := float64(simDelta) / float64(decay)
	for i := range s.list {
		c := &s.list[i]
		c.opacity -= fade
		if c.opacity < contributorFloor {
			c.opacity = contributorFloor
		}
		if c.hasTarget {
			c.pos.X += (c.target.X - c.pos.X) * contributorMoveLerp
			c.pos.Y += (c.target.Y - c.pos.Y) * contributorMoveLerp
		}
		c.beam *= beamDecay
	}
}

// setVisible toggles rendering and hit-testing for a contributor while
// preserving its historical state.
func (s *contribSet) setVisible(id string, visible bool) {
	if idx, ok := s.byID[id]; ok {
		s.list[idx].visible = visible
	}
}

// reset restores every contributor to its initial state, keeping the
// roster and colors.
func (s *contribSet) reset() {
	for i := range s.list {
		c := &s.list[i]
		c.pos = vec{}
		c.target = vec{}
		c.hasTarget = false
		c.opacity = 1
		c.beam = 0
	}
}
