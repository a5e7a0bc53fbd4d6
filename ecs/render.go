package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/spritegraph"
)

// FrameStatsEvent carries the renderer counters of each completed frame.
// Subscribe in your systems and call ProcessEvents to receive them.
var FrameStatsEvent = events.NewEventType[spritegraph.FrameStats]()

// FrameErrorEvent carries the error that aborted a frame.
var FrameErrorEvent = events.NewEventType[error]()

// TargetSetter receives the screen image before each draw.
// *spritegraph.EbitenBackend satisfies it.
type TargetSetter interface {
	SetTarget(img *ebiten.Image)
}

// RenderSystem draws a scene as an ecs renderer.
type RenderSystem struct {
	scene  *spritegraph.Scene
	target TargetSetter
	err    error
}

// NewRenderSystem creates a render system for scene. target may be nil when
// the scene's backend does not draw onto ebiten images.
func NewRenderSystem(scene *spritegraph.Scene, target TargetSetter) *RenderSystem {
	return &RenderSystem{scene: scene, target: target}
}

// Draw is an ecs.Renderer. It draws one frame and publishes its stats; a
// failed frame publishes FrameErrorEvent instead and is kept in Err.
func (s *RenderSystem) Draw(e *ecs.ECS, screen *ebiten.Image) {
	if s.target != nil && screen != nil {
		s.target.SetTarget(screen)
	}
	if err := s.scene.Draw(); err != nil {
		s.err = err
		FrameErrorEvent.Publish(e.World, err)
		return
	}
	s.err = nil
	FrameStatsEvent.Publish(e.World, s.scene.LastStats())
}

// Err returns the error of the most recent frame, nil once a later frame
// draws cleanly.
func (s *RenderSystem) Err() error {
	return s.err
}

// Update is an ecs.System advancing the scene's animations and camera by one
// tick.
func (s *RenderSystem) Update(_ *ecs.ECS) {
	s.scene.Update(tickSeconds())
}

// UpdateAnimations is an ecs.System advancing every AnimationSheet in the
// world by one tick.
func UpdateAnimations(e *ecs.ECS) {
	spritegraph.UpdateAnimations(e.World, tickSeconds())
}

// UpdateParticles is an ecs.System advancing every Emitter in the world by
// one tick.
func UpdateParticles(e *ecs.ECS) {
	spritegraph.UpdateEmitters(e.World, tickSeconds())
}

// Install registers the render system's update and draw on e and returns it.
func Install(e *ecs.ECS, layer ecs.LayerID, scene *spritegraph.Scene, target TargetSetter) *RenderSystem {
	rs := NewRenderSystem(scene, target)
	e.AddSystem(rs.Update)
	e.AddRenderer(layer, rs.Draw)
	return rs
}

// ProcessEvents delivers queued FrameStats and FrameError events.
func ProcessEvents(w donburi.World) {
	FrameStatsEvent.ProcessEvents(w)
	FrameErrorEvent.ProcessEvents(w)
}

func tickSeconds() float32 {
	return float32(1.0 / float64(ebiten.TPS()))
}
