package spritegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testEmitterConfig(max int) EmitterConfig {
	return EmitterConfig{
		MaxParticles: max,
		EmitRate:     100,
		Lifetime:     Range{1, 1},
		Speed:        Range{100, 100},
		Angle:        Range{0, 0},
		StartSize:    Range{16, 16},
		EndSize:      Range{8, 8},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		StartColor:   Color{1, 1, 1, 1},
		EndColor:     Color{0, 0, 0, 1},
		Seed:         7,
	}
}

// oneParticle returns a stopped emitter holding exactly one fresh particle.
func oneParticle(cfg EmitterConfig) Emitter {
	cfg.EmitRate = 10
	e := NewEmitter(cfg)
	e.Start()
	e.Update(0.1)
	e.Stop()
	return e
}

func TestEmitterPool(t *testing.T) {
	e := NewEmitter(testEmitterConfig(500))
	if len(e.particles) != 500 {
		t.Errorf("pool size = %d, want 500", len(e.particles))
	}
	d := NewEmitter(EmitterConfig{})
	if len(d.particles) != 128 {
		t.Errorf("default pool size = %d, want 128", len(d.particles))
	}
}

func TestEmitterStartStopReset(t *testing.T) {
	e := NewEmitter(testEmitterConfig(100))
	if e.Active() {
		t.Error("new emitter should be stopped")
	}
	e.Update(1)
	if e.Alive() != 0 {
		t.Errorf("stopped emitter spawned %d", e.Alive())
	}

	e.Start()
	e.Update(0.1)
	if e.Alive() != 10 {
		t.Errorf("Alive = %d, want 10", e.Alive())
	}

	e.Stop()
	e.Update(0.1)
	if e.Alive() != 10 {
		t.Errorf("Stop should keep live particles, Alive = %d", e.Alive())
	}

	e.Reset()
	if e.Alive() != 0 || e.Active() {
		t.Error("Reset should kill particles and stop")
	}
}

func TestEmitterPoolFull(t *testing.T) {
	e := NewEmitter(testEmitterConfig(5))
	e.Start()
	e.Update(0.5)
	if e.Alive() != 5 {
		t.Errorf("Alive = %d, want 5", e.Alive())
	}
}

func TestParticleLifecycle(t *testing.T) {
	e := oneParticle(testEmitterConfig(8))
	if e.Alive() != 1 {
		t.Fatalf("Alive = %d, want 1", e.Alive())
	}

	e.Update(0.5)
	p := e.particles[0]
	if !approx(p.pos[0], 50) || !approx(p.pos[1], 0) {
		t.Errorf("pos = %v, want (50, 0)", p.pos)
	}
	if !approx(p.size, 12) || !approx(p.alpha, 0.5) {
		t.Errorf("size %v alpha %v, want 12 and 0.5", p.size, p.alpha)
	}
	if !approx(p.color.R, 0.5) || !approx(p.color.A, 0.5) {
		t.Errorf("color = %+v, want R 0.5 A 0.5", p.color)
	}

	e.Update(0.6)
	if e.Alive() != 0 {
		t.Errorf("Alive = %d after lifetime, want 0", e.Alive())
	}
}

func TestParticleGravity(t *testing.T) {
	cfg := testEmitterConfig(8)
	cfg.Speed = Range{0, 0}
	cfg.Gravity = mgl32.Vec2{0, 100}
	e := oneParticle(cfg)

	e.Update(0.5)
	if p := e.particles[0]; !approx(p.vel[1], 50) || !approx(p.pos[1], 25) {
		t.Errorf("vel %v pos %v, want vy 50 y 25", p.vel, p.pos)
	}
}

func TestRangeSampleBounds(t *testing.T) {
	e := NewEmitter(EmitterConfig{Seed: 3})
	r := Range{2, 5}
	for i := 0; i < 200; i++ {
		v := r.sample(e.rng)
		if v < 2 || v > 5 {
			t.Fatalf("sample = %v, outside [2, 5]", v)
		}
	}
}

func TestEmitterZeroValueIsInert(t *testing.T) {
	var e Emitter
	e.Start()
	e.Update(1)
	if e.Alive() != 0 {
		t.Error("zero Emitter has no pool and should spawn nothing")
	}
}

func TestTraverseDrawsParticles(t *testing.T) {
	f := newTraverseFixture(t)
	under := spawnAt(f.w, f.root, 0, 0, 0)
	setSprite(f.w, under, "a")

	e := spawnAt(f.w, f.root, 100, 100, 1)
	f.w.Entry(e).AddComponent(EmitterComponent)
	EmitterComponent.SetValue(f.w.Entry(e), oneParticle(testEmitterConfig(8)))

	if err := f.run(t); err != nil {
		t.Fatal(err)
	}
	if len(f.b.calls) != 2 {
		t.Fatalf("draws = %d, want 2", len(f.b.calls))
	}
	c := f.b.calls[1]
	if c.tex != f.b.white {
		t.Error("untextured particles should use the white texture")
	}
	if c.verts[0].Pos != (mgl32.Vec3{92, 92, 1}) || c.verts[2].Pos != (mgl32.Vec3{108, 108, 1}) {
		t.Errorf("quad = %v-%v, want (92,92,1)-(108,108,1)", c.verts[0].Pos, c.verts[2].Pos)
	}
	if f.r.Stats().Quads != 2 {
		t.Errorf("Quads = %d, want 2", f.r.Stats().Quads)
	}
}

func TestTraverseCentresFrameParticles(t *testing.T) {
	f := newTraverseFixture(t)
	cfg := testEmitterConfig(8)
	cfg.FrameName = "a" // 10x10 source, StartSize 16
	e := spawnAt(f.w, f.root, 100, 100, 1)
	f.w.Entry(e).AddComponent(EmitterComponent)
	EmitterComponent.SetValue(f.w.Entry(e), oneParticle(cfg))

	if err := f.run(t); err != nil {
		t.Fatal(err)
	}
	c := f.b.calls[0]
	if got := c.tex.(*stubTexture).name; got != "s1" {
		t.Errorf("texture = %s, want s1", got)
	}
	if c.verts[0].Pos != (mgl32.Vec3{95, 95, 1}) || c.verts[2].Pos != (mgl32.Vec3{105, 105, 1}) {
		t.Errorf("quad = %v-%v, want (95,95,1)-(105,105,1)", c.verts[0].Pos, c.verts[2].Pos)
	}
}

func TestParticleSizeClamped(t *testing.T) {
	cfg := testEmitterConfig(8)
	cfg.StartSize = Range{1e6, 1e6}
	em := oneParticle(cfg)
	r, b := newTestRenderer(t)

	if err := em.render(r, nil, mgl32.Vec3{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(r.ActiveSheet(), true); err != nil {
		t.Fatal(err)
	}
	v := b.calls[0].verts
	if w := v[2].Pos[0] - v[0].Pos[0]; w != 65535 {
		t.Errorf("width = %v, want 65535", w)
	}
	if v[0].Pos[0] != -32767.5 {
		t.Errorf("left = %v, want -32767.5", v[0].Pos[0])
	}
}

func TestSceneUpdateAdvancesEmitters(t *testing.T) {
	s, _ := newTestScene(t)
	e := s.Spawn(s.Root(), VisibleTransform(0, 0, 1, 0, 0), EmitterComponent)
	em := NewEmitter(testEmitterConfig(50))
	em.Start()
	EmitterComponent.SetValue(s.World.Entry(e), em)

	s.Update(0.1)
	if got := EmitterComponent.Get(s.World.Entry(e)).Alive(); got != 10 {
		t.Errorf("Alive = %d, want 10", got)
	}
}
