package spritegraph

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// Scene owns one frame's worth of render orchestration: it applies the
// camera, walks the hierarchy from its root, and closes the frame with a
// forced flush.
type Scene struct {
	World    donburi.World
	Renderer *Renderer
	Camera   *Camera
	Lookup   *EntityLookup

	// HiDPI and BaseScale scale text sizes, see Renderer.SetTextScale.
	HiDPI     float32
	BaseScale mgl32.Vec2

	ctx   *RenderContext
	root  donburi.Entity
	debug bool
	frame uint64
	last  FrameStats
}

// NewScene creates a scene with a fresh root entity registered as RootName.
// The camera covers a w×h viewport.
func NewScene(w donburi.World, r *Renderer, sheets *SheetIndex, width, height float32) *Scene {
	s := &Scene{
		World:     w,
		Renderer:  r,
		Camera:    NewCamera(width, height),
		Lookup:    NewEntityLookup(),
		HiDPI:     1,
		BaseScale: mgl32.Vec2{1, 1},
		ctx:       NewRenderContext(w, r, sheets, nil),
	}
	s.root = Spawn(w, donburi.Null, IdentityTransform())
	s.Lookup.Set(RootName, s.root)
	return s
}

// Root returns the entity traversal starts from.
func (s *Scene) Root() donburi.Entity {
	return s.root
}

// SetRoot makes e the traversal root and registers it as RootName.
func (s *Scene) SetRoot(e donburi.Entity) {
	s.root = e
	s.Lookup.Set(RootName, e)
}

// Sheets returns the sheet index used for frame lookups.
func (s *Scene) Sheets() *SheetIndex {
	return s.ctx.Sheets
}

// SetSheets replaces the sheet index.
func (s *Scene) SetSheets(x *SheetIndex) {
	s.ctx.Sheets = x
}

// AddTileset registers the texture TileMaps named name are drawn with.
func (s *Scene) AddTileset(name string, tex Texture) {
	s.ctx.Tilesets[name] = tex
}

// Spawn creates an entity under parent (the root when parent is
// donburi.Null). See the package-level Spawn.
func (s *Scene) Spawn(parent donburi.Entity, t Transform, extra ...donburi.IComponentType) donburi.Entity {
	if parent == donburi.Null {
		parent = s.root
	}
	return Spawn(s.World, parent, t, extra...)
}

// AddTileMaps spawns one child of parent per mesh, at the origin, with z
// taken from the mesh vertices.
func (s *Scene) AddTileMaps(parent donburi.Entity, meshes []TileMap) []donburi.Entity {
	out := make([]donburi.Entity, 0, len(meshes))
	for _, m := range meshes {
		e := s.Spawn(parent, IdentityTransform(), TileMapComponent)
		TileMapComponent.SetValue(s.World.Entry(e), m)
		out = append(out, e)
	}
	return out
}

// Update advances animations, particle emitters, and the camera by dt
// seconds.
func (s *Scene) Update(dt float32) {
	UpdateAnimations(s.World, dt)
	UpdateEmitters(s.World, dt)
	if s.Camera != nil {
		s.Camera.Update(dt)
	}
}

// Draw renders one frame from the root. On error the pending batch is
// discarded and nothing more is drawn this frame.
func (s *Scene) Draw() error {
	r := s.Renderer
	r.ResetStats()
	s.ctx.ResetCounters()
	if err := r.ResetTransform(); err != nil {
		r.Discard()
		return err
	}
	if s.Camera != nil {
		r.SetProjection(s.Camera.Projection())
	}
	r.SetTextScale(s.HiDPI, s.BaseScale)

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		if n := NodeOf(s.World, s.root); n != nil {
			debugCheckChildCount(RootName, n)
		}
	}

	var offset mgl32.Vec3
	if err := RenderFromNode(s.ctx, s.root, &offset); err != nil {
		r.Discard()
		return err
	}

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	if err := r.Flush(r.ActiveSheet(), true); err != nil {
		return err
	}

	s.frame++
	s.last = r.Stats()
	if s.debug {
		stats.flushTime = time.Since(t0)
		stats.frame = s.frame
		stats.visited = s.ctx.Visited
		stats.skipped = s.ctx.Skipped
		stats.render = s.last
		s.debugLog(stats)
	}
	return nil
}

// LastStats returns the renderer counters of the last completed frame.
func (s *Scene) LastStats() FrameStats {
	return s.last
}

// Frame returns the number of frames drawn.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing and draw stats and content warnings are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}
