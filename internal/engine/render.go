package engine

// Renderer is the minimal capability surface the engine draws through.
// The engine applies the camera transform itself and hands the
// renderer screen coordinates, so implementations stay dumb: a
// terminal cell canvas, an image rasterizer, or a test fake.
type Renderer interface {
	// Clear starts a frame for a viewport of the given size.
	Clear(width, height int)
	// DrawEdge paints a parent-child link.
	DrawEdge(x1, y1, x2, y2 float64, opacity float64)
	// DrawNode paints one file or directory circle.
	DrawNode(n Node, x, y, radius float64)
	// DrawBeam paints the activity cue between a contributor and the
	// node it is flying toward.
	DrawBeam(x1, y1, x2, y2 float64, intensity float64)
	// DrawAvatar paints a contributor marker.
	DrawAvatar(c Contributor, x, y, radius float64)
}

// paint walks the current state back-to-front: edges, nodes, beams,
// avatars. It is the only place the engine talks to the surface.
func (e *Engine) paint() {
	if e.surface == nil {
		return
	}
	cam := e.camera
	e.surface.Clear(cam.ViewportW, cam.ViewportH)

	// Edges first so nodes sit on top of their links.
	for i := range e.tree.nodes {
		n := &e.tree.nodes[i]
		if n.dead || i == treeRoot {
			continue
		}
		p := &e.tree.nodes[n.parent]
		x1, y1 := WorldToScreen(cam, p.pos.X, p.pos.Y)
		x2, y2 := WorldToScreen(cam, n.pos.X, n.pos.Y)
		op := n.opacity
		if p.opacity < op {
			op = p.opacity
		}
		e.surface.DrawEdge(x1, y1, x2, y2, op)
	}

	for i := range e.tree.nodes {
		n := &e.tree.nodes[i]
		if n.dead {
			continue
		}
		x, y := WorldToScreen(cam, n.pos.X, n.pos.Y)
		r := NodeRadius(n.modCount, e.settings.NodeSizeScale) * cam.Zoom
		e.surface.DrawNode(e.nodeView(i), x, y, r)
	}

	if e.settings.ShowAvatars {
		for i := range e.contribs.list {
			c := &e.contribs.list[i]
			if !c.visible {
				continue
			}
			if c.beam > beamCutoff && c.hasTarget {
				x1, y1 := WorldToScreen(cam, c.pos.X, c.pos.Y)
				x2, y2 := WorldToScreen(cam, c.target.X, c.target.Y)
				e.surface.DrawBeam(x1, y1, x2, y2, c.beam)
			}
			x, y := WorldToScreen(cam, c.pos.X, c.pos.Y)
			e.surface.DrawAvatar(e.contributorView(i), x, y, avatarRadius*cam.Zoom)
		}
	}
}

// beamCutoff is the intensity below which a beam is no longer drawn.
const beamCutoff = 0.05
