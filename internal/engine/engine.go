// Package engine implements the commit-replay visualization core: an
// evolving file tree positioned by a force-directed layout, contributor
// markers, a pan/zoom camera, deterministic hit-testing, and a
// time-based playback state machine. The engine is single-goroutine
// and does no I/O; the host feeds it normalized data, drives one
// Frame per animation tick, and reads state through snapshot views.
package engine

import (
	"errors"
	"time"
)

// ErrInvalidState is returned by lifecycle calls made out of order,
// e.g. a second Initialize or one without a surface.
var ErrInvalidState = errors.New("engine: invalid state")

// Settings are the tunable scene parameters.
type Settings struct {
	NodeSizeScale float64
	ShowLabels    bool
	ShowAvatars   bool
	DecayWindowMs int
	ZoomMin       float64
	ZoomMax       float64
	// ActiveRepo filters the replay to one repository; empty means the
	// combined view.
	ActiveRepo string
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		NodeSizeScale: 1.0,
		ShowLabels:    true,
		ShowAvatars:   true,
		DecayWindowMs: 4000,
		ZoomMin:       0.2,
		ZoomMax:       8.0,
	}
}

// SettingsPatch is a partial settings update; nil fields are left
// unchanged. Only the recognized fields below can be patched.
type SettingsPatch struct {
	NodeSizeScale *float64
	ShowLabels    *bool
	ShowAvatars   *bool
	DecayWindowMs *int
	ZoomMin       *float64
	ZoomMax       *float64
}

// Callbacks are the host hooks. Both are optional and replaceable
// mid-session; replacements take effect on the next firing.
type Callbacks struct {
	// OnPlaybackChange fires on state transitions only, never on speed
	// changes.
	OnPlaybackChange func(Status)
	// OnDateChange fires at most once per frame, batched across all
	// events crossed that frame.
	OnDateChange func(time.Time)
}

// Node is a read-only snapshot of one file or directory.
type Node struct {
	Path              string
	Name              string
	ParentPath        string
	IsDirectory       bool
	Category          Category
	Color             string
	ModificationCount int
	X, Y              float64
	TargetX, TargetY  float64
	Radius            float64
	BirthTime         time.Time
	LastTouchedTime   time.Time
	Opacity           float64
}

// Contributor is a read-only snapshot of one contributor marker.
type Contributor struct {
	ID            string
	DisplayName   string
	AvatarRef     string
	Color         string
	X, Y          float64
	Opacity       float64
	IsVisible     bool
	IsHighlighted bool
}

// PlaybackView is the externally visible playback state.
type PlaybackView struct {
	Status  Status
	Speed   float64
	SimTime time.Time
}

// State bundles the camera, playback and settings snapshots.
type State struct {
	Camera   Camera
	Playback PlaybackView
	Settings Settings
}

// Engine owns all replay state. It is not safe for concurrent use;
// the host drives it from a single goroutine.
type Engine struct {
	timeline *Timeline
	events   []CommitEvent // filtered by ActiveRepo
	cursor   int           // next event due

	tree     *tree
	contribs *contribSet
	camera   Camera
	playback playback
	settings Settings

	callbacks Callbacks
	surface   Renderer

	pendingPanX float64
	pendingPanY float64

	initialized bool
	running     bool
	destroyed   bool
}

// New builds an engine from the host payload. Malformed commit records
// are dropped; Warnings reports them.
func New(p Payload, settings Settings) *Engine {
	if settings.NodeSizeScale <= 0 {
		settings.NodeSizeScale = 1
	}
	if settings.ZoomMax <= settings.ZoomMin {
		d := DefaultSettings()
		settings.ZoomMin, settings.ZoomMax = d.ZoomMin, d.ZoomMax
	}
	if settings.DecayWindowMs <= 0 {
		settings.DecayWindowMs = DefaultSettings().DecayWindowMs
	}
	e := &Engine{
		timeline: BuildTimeline(p.Commits),
		tree:     newTree(),
		contribs: newContribSet(p.Contributors),
		camera:   newCamera(),
		settings: settings,
	}
	e.events = filterEvents(e.timeline.Events, settings.ActiveRepo)
	e.playback = newPlayback(e.timelineStart())
	return e
}

// Warnings returns the normalization warnings collected at build time.
func (e *Engine) Warnings() []string {
	return append([]string(nil), e.timeline.Warnings...)
}

// Initialize binds the render surface. It must be called exactly once;
// a nil surface or a second call fails with ErrInvalidState.
func (e *Engine) Initialize(surface Renderer) error {
	if e.destroyed || e.initialized || surface == nil {
		return ErrInvalidState
	}
	e.surface = surface
	e.initialized = true
	return nil
}

// Start enables frame processing. Frames before Start are ignored.
func (e *Engine) Start() error {
	if e.destroyed || !e.initialized {
		return ErrInvalidState
	}
	e.running = true
	return nil
}

// Destroy synchronously halts frame processing and clears callbacks so
// none fire after it returns. Every later command is a no-op.
func (e *Engine) Destroy() {
	e.destroyed = true
	e.running = false
	e.callbacks = Callbacks{}
	e.surface = nil
}

// Resize updates the viewport dimensions only.
func (e *Engine) Resize(width, height int) {
	if e.destroyed {
		return
	}
	e.camera.Resize(width, height)
}

// SetCallbacks replaces the host hooks.
func (e *Engine) SetCallbacks(cb Callbacks) {
	if e.destroyed {
		return
	}
	e.callbacks = cb
}

// SetSettings merges the recognized fields of a partial update.
func (e *Engine) SetSettings(patch SettingsPatch) {
	if e.destroyed {
		return
	}
	if patch.NodeSizeScale != nil && *patch.NodeSizeScale > 0 {
		e.settings.NodeSizeScale = *patch.NodeSizeScale
	}
	if patch.ShowLabels != nil {
		e.settings.ShowLabels = *patch.ShowLabels
	}
	if patch.ShowAvatars != nil {
		e.settings.ShowAvatars = *patch.ShowAvatars
	}
	if patch.DecayWindowMs != nil && *patch.DecayWindowMs > 0 {
		e.settings.DecayWindowMs = *patch.DecayWindowMs
	}
	if patch.ZoomMin != nil && *patch.ZoomMin > 0 {
		e.settings.ZoomMin = *patch.ZoomMin
	}
	if patch.ZoomMax != nil && *patch.ZoomMax > e.settings.ZoomMin {
		e.settings.ZoomMax = *patch.ZoomMax
	}
}

// SetActiveRepo refilters the timeline to one repository (empty id is
// the combined view) without reconstructing the engine. The tree is
// rebuilt up to the current simulated time.
func (e *Engine) SetActiveRepo(repoID string) {
	if e.destroyed || e.settings.ActiveRepo == repoID {
		return
	}
	e.settings.ActiveRepo = repoID
	e.events = filterEvents(e.timeline.Events, repoID)
	e.rebuildTo(e.playback.sim)
}

// RepoIDs lists the repositories present in the timeline, in first
// appearance order.
func (e *Engine) RepoIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range e.timeline.Events {
		if !seen[ev.RepoID] {
			seen[ev.RepoID] = true
			out = append(out, ev.RepoID)
		}
	}
	return out
}

// --- Playback commands ---

// Play starts or resumes playback.
func (e *Engine) Play() {
	if e.destroyed {
		return
	}
	if e.playback.play() {
		e.firePlayback()
	}
}

// Pause freezes the simulated clock.
func (e *Engine) Pause() {
	if e.destroyed {
		return
	}
	if e.playback.pause() {
		e.firePlayback()
	}
}

// Reset returns to Stopped with the tree cleared and the simulated
// clock at the timeline start.
func (e *Engine) Reset() {
	if e.destroyed {
		return
	}
	changed := e.playback.reset(e.timelineStart())
	e.tree = newTree()
	e.contribs.reset()
	e.cursor = 0
	if changed {
		e.firePlayback()
	}
}

// SetSpeed changes the speed multiplier. Speed affects pacing only,
// never which events are applied, and does not fire OnPlaybackChange.
func (e *Engine) SetSpeed(multiplier float64) {
	if e.destroyed {
		return
	}
	e.playback.setSpeed(multiplier)
}

// Seek jumps the simulated clock to a timestamp, clamped to the event
// range. Forward seeks apply only the newly-due events; backward seeks
// rebuild the tree from the beginning up to the target.
func (e *Engine) Seek(timestamp time.Time) {
	if e.destroyed || len(e.events) == 0 {
		return
	}
	if first := e.events[0].Timestamp; timestamp.Before(first) {
		timestamp = first
	}
	if last := e.events[len(e.events)-1].Timestamp; timestamp.After(last) {
		timestamp = last
	}
	if timestamp.Before(e.playback.sim) {
		e.rebuildTo(timestamp)
	} else {
		e.playback.sim = timestamp
		e.applyDue()
	}
	e.playback.sim = timestamp
}

// --- Camera commands ---

// PanCamera queues a screen-space pan. Deltas arriving within one
// frame are coalesced and applied as a single camera update.
func (e *Engine) PanCamera(dxScreen, dyScreen float64) {
	if e.destroyed {
		return
	}
	e.pendingPanX += dxScreen
	e.pendingPanY += dyScreen
}

// ZoomCamera applies an anchor-preserving zoom immediately, clamped to
// the configured range.
func (e *Engine) ZoomCamera(wheelDelta, pivotScreenX, pivotScreenY float64) {
	if e.destroyed {
		return
	}
	e.camera.ZoomAt(wheelDelta, pivotScreenX, pivotScreenY, e.settings.ZoomMin, e.settings.ZoomMax)
}

// --- Contributor commands ---

// HighlightContributor dims all other contributors; the empty id
// clears the highlight and restores their exact prior opacity.
func (e *Engine) HighlightContributor(id string) {
	if e.destroyed {
		return
	}
	e.contribs.highlighted = id
}

// SetContributorVisible excludes a contributor from rendering and
// hit-testing while preserving its historical data.
func (e *Engine) SetContributorVisible(id string, visible bool) {
	if e.destroyed {
		return
	}
	e.contribs.setVisible(id, visible)
}

// --- Frame loop ---

// Frame runs one simulation+render step: coalesced camera updates,
// clock advancement, due-event application, decay, one layout pass,
// then a paint through the surface. The host calls it once per
// animation tick.
func (e *Engine) Frame(now time.Time) {
	if e.destroyed || !e.running {
		return
	}
	if e.pendingPanX != 0 || e.pendingPanY != 0 {
		e.camera.Pan(e.pendingPanX, e.pendingPanY)
		e.pendingPanX, e.pendingPanY = 0, 0
	}

	simDelta := e.playback.advance(now)
	if e.playback.status == StatusPlaying {
		e.applyDue()
	}

	// Reaching the final event while playing parks the clock in
	// Paused; the engine never auto-loops.
	if e.playback.status == StatusPlaying && e.cursor >= len(e.events) && len(e.events) > 0 {
		if e.playback.pause() {
			e.firePlayback()
		}
	}

	e.tree.tick(e.playback.sim, e.decayWindow())
	e.contribs.tick(simDelta, e.decayWindow())
	stepLayout(e.tree)
	e.paint()
}

// applyDue replays every event whose timestamp is not after the
// simulated clock, firing OnDateChange at most once for the batch.
func (e *Engine) applyDue() {
	applied := false
	var lastTS time.Time
	for e.cursor < len(e.events) && !e.events[e.cursor].Timestamp.After(e.playback.sim) {
		ev := e.events[e.cursor]
		e.tree.apply(ev, ev.Timestamp)
		if len(ev.Files) > 0 {
			last := ev.Files[len(ev.Files)-1]
			if idx, ok := e.tree.byPath[last.Path]; ok {
				e.contribs.touch(ev.ContributorID, e.tree.nodes[idx].pos)
			}
		}
		lastTS = ev.Timestamp
		applied = true
		e.cursor++
	}
	if applied && e.callbacks.OnDateChange != nil {
		e.callbacks.OnDateChange(lastTS)
	}
}

// rebuildTo reconstructs the tree from the timeline start up to the
// target timestamp. Backward seeks have no generic undo.
func (e *Engine) rebuildTo(target time.Time) {
	e.tree = newTree()
	e.contribs.reset()
	e.cursor = 0
	e.playback.sim = target
	e.applyDue()
}

func (e *Engine) firePlayback() {
	if e.callbacks.OnPlaybackChange != nil {
		e.callbacks.OnPlaybackChange(e.playback.status)
	}
}

func (e *Engine) timelineStart() time.Time {
	if len(e.events) > 0 {
		return e.events[0].Timestamp
	}
	return time.Time{}
}

func (e *Engine) decayWindow() time.Duration {
	return time.Duration(e.settings.DecayWindowMs) * time.Millisecond
}

// --- Queries ---

// State returns a snapshot of camera, playback and settings.
func (e *Engine) State() State {
	return State{
		Camera: e.camera,
		Playback: PlaybackView{
			Status:  e.playback.status,
			Speed:   e.playback.speed,
			SimTime: e.playback.sim,
		},
		Settings: e.settings,
	}
}

// Nodes returns read-only snapshots of every live node in insertion
// order. Mutating the result has no effect on the engine.
func (e *Engine) Nodes() []Node {
	out := make([]Node, 0, e.tree.liveCount())
	for i := range e.tree.nodes {
		if e.tree.nodes[i].dead {
			continue
		}
		out = append(out, e.nodeView(i))
	}
	return out
}

// Contributors returns read-only snapshots of all contributors.
func (e *Engine) Contributors() []Contributor {
	out := make([]Contributor, 0, len(e.contribs.list))
	for i := range e.contribs.list {
		out = append(out, e.contributorView(i))
	}
	return out
}

func (e *Engine) nodeView(i int) Node {
	n := &e.tree.nodes[i]
	return Node{
		Path:              n.path,
		Name:              n.name,
		ParentPath:        parentPath(n.path),
		IsDirectory:       n.dir,
		Category:          n.category,
		Color:             colorFor(n.category).Hex(),
		ModificationCount: n.modCount,
		X:                 n.pos.X,
		Y:                 n.pos.Y,
		TargetX:           n.target.X,
		TargetY:           n.target.Y,
		Radius:            NodeRadius(n.modCount, e.settings.NodeSizeScale),
		BirthTime:         n.birth,
		LastTouchedTime:   n.touched,
		Opacity:           n.opacity,
	}
}

// contributorView applies the highlight dim at view time only, so the
// underlying decay state survives highlight round-trips untouched.
func (e *Engine) contributorView(i int) Contributor {
	c := &e.contribs.list[i]
	opacity := c.opacity
	highlighted := e.contribs.highlighted == c.id
	if e.contribs.highlighted != "" && !highlighted {
		opacity *= highlightDim
	}
	return Contributor{
		ID:            c.id,
		DisplayName:   c.name,
		AvatarRef:     c.avatarRef,
		Color:         c.color.Hex(),
		X:             c.pos.X,
		Y:             c.pos.Y,
		Opacity:       opacity,
		IsVisible:     c.visible,
		IsHighlighted: highlighted,
	}
}
