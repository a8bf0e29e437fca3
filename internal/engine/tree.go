package engine

import (
	"math"
	"path"
	"time"
)

// vec is a 2D position or velocity in world coordinates.
type vec struct {
	X, Y float64
}

func (v vec) add(o vec) vec      { return vec{v.X + o.X, v.Y + o.Y} }
func (v vec) sub(o vec) vec      { return vec{v.X - o.X, v.Y - o.Y} }
func (v vec) scale(s float64) vec { return vec{v.X * s, v.Y * s} }
func (v vec) len() float64       { return math.Hypot(v.X, v.Y) }

// treeNode is one file or directory in the arena. Nodes reference each
// other by index, never by pointer, so iteration order is the insertion
// order and the store carries no cyclic object graph.
type treeNode struct {
	path     string
	name     string
	parent   int // -1 for root
	children []int
	dir      bool
	category Category

	modCount int
	slot     int // insertion index under parent, fixes the radial angle

	pos      vec
	target   vec
	vel      vec
	lastGood vec

	birth   time.Time
	touched time.Time

	opacity   float64
	fading    bool
	fadeStart time.Time
	dead      bool
}

// tree owns every node of the evolving file graph. The root lives at
// index 0 with path "".
type tree struct {
	nodes  []treeNode
	byPath map[string]int
	slots  map[int]int // per-parent count of children ever inserted
}

const treeRoot = 0

func newTree() *tree {
	t := &tree{
		byPath: make(map[string]int),
		slots:  make(map[int]int),
	}
	t.nodes = append(t.nodes, treeNode{
		path:    "",
		name:    "/",
		parent:  -1,
		dir:     true,
		category: CategoryDir,
		opacity: 1,
	})
	t.byPath[""] = treeRoot
	return t
}

// apply replays one commit event onto the tree at the given simulated
// time.
func (t *tree) apply(ev CommitEvent, at time.Time) {
	for _, fc := range ev.Files {
		switch fc.Type {
		case ChangeDelete:
			if idx, ok := t.byPath[fc.Path]; ok {
				t.touchChain(t.nodes[idx].parent, at)
				t.beginFade(idx, at)
			}
		case ChangeRename:
			t.rename(fc.OldPath, fc.Path, at)
		default:
			idx := t.ensure(fc.Path, at)
			t.markFile(fc.Path)
			t.touchChain(idx, at)
		}
	}
}

// ensure walks the path chain from root to leaf, creating any missing
// intermediate directories, and returns the leaf index.
func (t *tree) ensure(p string, at time.Time) int {
	if p == "" {
		return treeRoot
	}
	if idx, ok := t.byPath[p]; ok {
		t.revive(idx)
		return idx
	}
	parent := t.ensure(parentPath(p), at)
	// Intermediate calls land here only for directories; the final
	// caller fixes the leaf up as a file below.
	idx := t.insert(p, parent, at)
	return idx
}

func (t *tree) insert(p string, parent int, at time.Time) int {
	slot := t.slots[parent]
	t.slots[parent] = slot + 1

	n := treeNode{
		path:     p,
		name:     path.Base(p),
		parent:   parent,
		dir:      true, // leaf callers flip this via markFile
		category: CategoryDir,
		slot:     slot,
		birth:    at,
		touched:  at,
		opacity:  1,
	}
	// Spawn just off the parent so the spring carries it to its orbit.
	pp := t.nodes[parent].pos
	angle := slotAngle(slot)
	n.pos = vec{pp.X + math.Cos(angle)*spawnOffset, pp.Y + math.Sin(angle)*spawnOffset}
	n.lastGood = n.pos
	n.target = n.pos

	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	t.byPath[p] = idx
	par := &t.nodes[parent]
	par.children = append(par.children, idx)
	// Anything with children is a directory, whatever it looked like
	// when first seen.
	par.dir = true
	par.category = CategoryDir
	return idx
}

// touchChain marks the node and every ancestor as modified. The leaf
// and its whole chain count the touch, which is what makes a directory's
// modificationCount the sum of activity beneath it.
func (t *tree) touchChain(idx int, at time.Time) {
	for idx >= 0 {
		n := &t.nodes[idx]
		n.modCount++
		n.touched = at
		t.revive(idx)
		idx = n.parent
	}
}

// revive cancels an in-progress fade, e.g. when a deleted path is
// re-added before it finished fading out.
func (t *tree) revive(idx int) {
	n := &t.nodes[idx]
	if n.fading {
		n.fading = false
		n.opacity = 1
	}
}

// markFile flags the node at path as a regular file and assigns its
// category. ensure creates everything as a directory first.
func (t *tree) markFile(p string) {
	idx, ok := t.byPath[p]
	if !ok {
		return
	}
	n := &t.nodes[idx]
	if len(n.children) == 0 {
		n.dir = false
		n.category = categoryForPath(p)
	}
}

// beginFade starts the decay of a node. The node stays in the active
// set, ramping opacity to zero over the decay window, and is pruned
// only once fully faded.
func (t *tree) beginFade(idx int, at time.Time) {
	n := &t.nodes[idx]
	if n.dead || n.fading {
		return
	}
	n.fading = true
	n.fadeStart = at
	for _, c := range n.children {
		if !t.nodes[c].dead {
			t.beginFade(c, at)
		}
	}
}

// rename re-keys a node to its new path so it keeps its birth time,
// position and velocity and animates to the new location instead of
// being reborn.
func (t *tree) rename(oldPath, newPath string, at time.Time) {
	if oldPath == "" || oldPath == newPath {
		idx := t.ensure(newPath, at)
		t.markFile(newPath)
		t.touchChain(idx, at)
		return
	}
	idx, ok := t.byPath[oldPath]
	if !ok {
		idx = t.ensure(newPath, at)
		t.markFile(newPath)
		t.touchChain(idx, at)
		return
	}
	// The target path may still be occupied, e.g. a delete+rename pair
	// in one commit overwriting an existing file. The occupant gives
	// way so the path maps to exactly one live node.
	if occ, taken := t.byPath[newPath]; taken && occ != idx {
		t.prune(occ)
	}
	// Detach from the old parent.
	old := &t.nodes[idx]
	t.detach(old.parent, idx)
	delete(t.byPath, oldPath)

	parent := t.ensure(parentPath(newPath), at)
	slot := t.slots[parent]
	t.slots[parent] = slot + 1

	n := &t.nodes[idx]
	n.path = newPath
	n.name = path.Base(newPath)
	n.parent = parent
	n.slot = slot
	n.category = categoryForPath(newPath)
	t.byPath[newPath] = idx
	t.nodes[parent].children = append(t.nodes[parent].children, idx)

	t.touchChain(idx, at)
}

func (t *tree) detach(parent, idx int) {
	if parent < 0 {
		return
	}
	kids := t.nodes[parent].children
	for i, c := range kids {
		if c == idx {
			t.nodes[parent].children = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// tick advances fades at the given simulated time and prunes fully
// faded nodes. A directory that has lost its last live child starts
// fading as well, so empty branches dissolve with the files.
func (t *tree) tick(sim time.Time, decay time.Duration) {
	if decay <= 0 {
		decay = time.Millisecond
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.dead || !n.fading {
			continue
		}
		elapsed := sim.Sub(n.fadeStart)
		n.opacity = 1 - float64(elapsed)/float64(decay)
		if n.opacity <= 0 {
			n.opacity = 0
			t.prune(i)
		}
	}
	// Cascade: fade directories left without live children.
	for i := range t.nodes {
		n := &t.nodes[i]
		if i == treeRoot || n.dead || n.fading || !n.dir {
			continue
		}
		if t.slots[i] > 0 && t.liveChildren(i) == 0 {
			t.beginFade(i, sim)
		}
	}
}

func (t *tree) prune(idx int) {
	n := &t.nodes[idx]
	n.dead = true
	t.detach(n.parent, idx)
	// The path may have been re-keyed to another node since this one
	// started fading; only drop the mapping if it is still ours.
	if cur, ok := t.byPath[n.path]; ok && cur == idx {
		delete(t.byPath, n.path)
	}
}

func (t *tree) liveChildren(idx int) int {
	count := 0
	for _, c := range t.nodes[idx].children {
		if !t.nodes[c].dead {
			count++
		}
	}
	return count
}

// liveCount returns the number of non-pruned nodes, root included.
func (t *tree) liveCount() int {
	count := 0
	for i := range t.nodes {
		if !t.nodes[i].dead {
			count++
		}
	}
	return count
}

// parentPath returns the directory component of a slash path, "" for
// top-level entries.
func parentPath(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
