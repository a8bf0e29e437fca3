package engine

import "math"

// Node size tunables.
const (
	nodeBaseRadius   = 5.0
	nodeRadiusGrowth = 3.0
)

// NodeRadius returns the rendered radius for a node with the given
// modification count under the global size setting. Radius grows
// logarithmically so hot files stay bounded.
func NodeRadius(modCount int, sizeScale float64) float64 {
	if sizeScale <= 0 {
		sizeScale = 1
	}
	return (nodeBaseRadius + nodeRadiusGrowth*math.Log1p(float64(modCount))) * sizeScale
}

// HitTestNode returns the node whose circle contains the world point.
// On overlap the smallest-radius match wins, so a file is preferred
// over its enclosing directory. Fully faded nodes never match. Pure.
func HitTestNode(worldX, worldY float64, nodes []Node, sizeScale float64) (Node, bool) {
	var best Node
	bestR := math.Inf(1)
	found := false
	for _, n := range nodes {
		if n.Opacity <= 0 {
			continue
		}
		r := NodeRadius(n.ModificationCount, sizeScale)
		dx := worldX - n.X
		dy := worldY - n.Y
		if dx*dx+dy*dy <= r*r && r < bestR {
			best = n
			bestR = r
			found = true
		}
	}
	return best, found
}

// HitTestContributor performs a containment test against the fixed
// avatar radius. Invisible contributors are excluded. Pure.
func HitTestContributor(worldX, worldY float64, contributors []Contributor) (Contributor, bool) {
	for _, c := range contributors {
		if !c.IsVisible {
			continue
		}
		dx := worldX - c.X
		dy := worldY - c.Y
		if dx*dx+dy*dy <= avatarRadius*avatarRadius {
			return c, true
		}
	}
	return Contributor{}, false
}
