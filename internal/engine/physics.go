package engine

import "math"

// Layout tunables. The defaults settle a few thousand nodes in a
// couple of seconds without visible oscillation.
const (
	// physicsStep is the fixed Euler integration step in seconds. The
	// simulation runs once per frame regardless of playback speed.
	physicsStep = 1.0 / 30

	// springStrength pulls a child toward its orbit anchor.
	springStrength = 6.0

	// velocityDamping is applied after integration each step.
	velocityDamping = 0.80

	// orbitBase is the minimum parent-child orbit radius.
	orbitBase = 40.0

	// orbitPerSibling widens the orbit as a directory grows, reducing
	// overlap between crowded siblings.
	orbitPerSibling = 3.0

	// repulseStrength scales the inverse-square sibling repulsion.
	repulseStrength = 700.0

	// minDistance is the epsilon clamp: any distance below it is
	// treated as exactly minDistance so forces never go singular.
	minDistance = 0.05

	// spawnOffset is how far off the parent a new node materializes.
	spawnOffset = 8.0

	// goldenAngle spreads sibling slots radially in insertion order.
	goldenAngle = 2.39996322972865332
)

func slotAngle(slot int) float64 {
	return goldenAngle * float64(slot)
}

// stepLayout runs one fixed-step force pass over the tree. The root is
// anchored at the origin; every other live node is pulled toward a
// radial anchor around its parent and pushed away from its siblings.
func stepLayout(t *tree) {
	type accel struct{ x, y float64 }
	acc := make([]accel, len(t.nodes))

	for i := range t.nodes {
		n := &t.nodes[i]
		if n.dead || i == treeRoot {
			continue
		}
		parent := &t.nodes[n.parent]
		siblings := t.liveChildren(n.parent)
		orbit := orbitBase + orbitPerSibling*float64(siblings)

		angle := slotAngle(n.slot)
		anchor := vec{
			X: parent.pos.X + math.Cos(angle)*orbit,
			Y: parent.pos.Y + math.Sin(angle)*orbit,
		}
		n.target = anchor

		d := anchor.sub(n.pos)
		acc[i].x += d.X * springStrength
		acc[i].y += d.Y * springStrength
	}

	// Sibling repulsion, pairwise under each directory.
	for p := range t.nodes {
		if t.nodes[p].dead || !t.nodes[p].dir {
			continue
		}
		kids := t.nodes[p].children
		for a := 0; a < len(kids); a++ {
			ia := kids[a]
			if t.nodes[ia].dead {
				continue
			}
			for b := a + 1; b < len(kids); b++ {
				ib := kids[b]
				if t.nodes[ib].dead {
					continue
				}
				diff := t.nodes[ia].pos.sub(t.nodes[ib].pos)
				dist := diff.len()
				if dist < minDistance {
					// Coincident points get a deterministic nudge
					// along the slot angle instead of a random one.
					ang := slotAngle(t.nodes[ia].slot)
					diff = vec{math.Cos(ang), math.Sin(ang)}
					dist = minDistance
				}
				f := repulseStrength / (dist * dist)
				ux, uy := diff.X/dist, diff.Y/dist
				acc[ia].x += ux * f
				acc[ia].y += uy * f
				acc[ib].x -= ux * f
				acc[ib].y -= uy * f
			}
		}
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if n.dead || i == treeRoot {
			continue
		}
		n.vel.X = (n.vel.X + acc[i].x*physicsStep) * velocityDamping
		n.vel.Y = (n.vel.Y + acc[i].y*physicsStep) * velocityDamping
		n.pos.X += n.vel.X * physicsStep
		n.pos.Y += n.vel.Y * physicsStep

		if !finite(n.pos.X) || !finite(n.pos.Y) {
			// Substitute the last good position rather than letting a
			// bad value reach the renderer.
			n.pos = n.lastGood
			n.vel = vec{}
		} else {
			n.lastGood = n.pos
		}
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
