package spritegraph

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// Range is an inclusive interval sampled uniformly.
type Range struct {
	Min, Max float32
}

func (r Range) sample(rng *rand.Rand) float32 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// EmitterConfig controls how particles spawn and evolve.
type EmitterConfig struct {
	// MaxParticles is the pool size. Spawns beyond it are dropped. Default 128.
	MaxParticles int
	// EmitRate is particles per second while active.
	EmitRate float32

	Lifetime Range // seconds
	Speed    Range // pixels per second
	Angle    Range // radians, 0 = +x

	// StartSize and EndSize are the quad edge in pixels, interpolated over
	// the particle's life. Ignored when FrameName is set: sheet frames draw
	// at their source size.
	StartSize, EndSize   Range
	StartAlpha, EndAlpha Range
	StartColor, EndColor Color

	// Gravity is added to every particle's velocity each second.
	Gravity mgl32.Vec2

	// FrameName selects a sheet frame. Empty draws untextured quads.
	FrameName string

	// Seed makes emission reproducible. Zero seeds from the runtime.
	Seed uint64
}

type particle struct {
	pos, vel       mgl32.Vec2
	life, maxLife  float32
	size0, size1   float32
	alpha0, alpha1 float32
	size, alpha    float32
	color          Color
}

// Emitter is a pooled CPU particle system. Particles live in the owning
// entity's local space, so they follow it. The traversal appends one quad
// per live particle to the ordinary sprite batch.
type Emitter struct {
	config    EmitterConfig
	particles []particle
	alive     int
	accum     float32
	active    bool
	rng       *rand.Rand
}

// NewEmitter creates a stopped emitter with a preallocated pool.
func NewEmitter(cfg EmitterConfig) Emitter {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 128
	}
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return Emitter{
		config:    cfg,
		particles: make([]particle, cfg.MaxParticles),
		rng:       rng,
	}
}

// Start begins emitting.
func (e *Emitter) Start() { e.active = true }

// Stop ends emission; live particles run out their lifetime.
func (e *Emitter) Stop() { e.active = false }

// Reset stops emission and kills every particle.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
	e.accum = 0
}

// Active reports whether the emitter is spawning.
func (e *Emitter) Active() bool { return e.active }

// Alive returns the number of live particles.
func (e *Emitter) Alive() int { return e.alive }

// Config returns the live config. Pool size changes take effect on the next
// NewEmitter only.
func (e *Emitter) Config() *EmitterConfig { return &e.config }

// Update advances every particle by dt seconds, then emits.
func (e *Emitter) Update(dt float32) {
	g := e.config.Gravity.Mul(dt)

	// swap-remove dead particles
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vel = p.vel.Add(g)
		p.pos = p.pos.Add(p.vel.Mul(dt))

		t := 1 - p.life/p.maxLife
		p.size = lerp32(p.size0, p.size1, t)
		p.alpha = lerp32(p.alpha0, p.alpha1, t)
		p.color = Color{
			R: lerp32(e.config.StartColor.R, e.config.EndColor.R, t),
			G: lerp32(e.config.StartColor.G, e.config.EndColor.G, t),
			B: lerp32(e.config.StartColor.B, e.config.EndColor.B, t),
			A: p.alpha,
		}
		i++
	}

	if !e.active || e.config.EmitRate <= 0 {
		return
	}
	e.accum += e.config.EmitRate * dt
	for e.accum >= 1 {
		e.accum--
		if e.alive < len(e.particles) {
			e.spawn()
		}
	}
}

func (e *Emitter) spawn() {
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	c := &e.config
	p := &e.particles[e.alive]

	angle := float64(c.Angle.sample(e.rng))
	speed := c.Speed.sample(e.rng)
	p.pos = mgl32.Vec2{}
	p.vel = mgl32.Vec2{float32(math.Cos(angle)) * speed, float32(math.Sin(angle)) * speed}

	p.life = c.Lifetime.sample(e.rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life
	p.size0 = c.StartSize.sample(e.rng)
	p.size1 = c.EndSize.sample(e.rng)
	p.alpha0 = c.StartAlpha.sample(e.rng)
	p.alpha1 = c.EndAlpha.sample(e.rng)
	p.size = p.size0
	p.alpha = p.alpha0
	p.color = c.StartColor
	p.color.A = p.alpha

	e.alive++
}

// render appends one quad per live particle, centred on the particle.
// Sheet frames draw at their source size, so they centre on that instead.
func (e *Emitter) render(r *Renderer, sheets *SheetIndex, abs mgl32.Vec3) error {
	if e.alive == 0 {
		return nil
	}
	var frameHalf mgl32.Vec2
	if name := e.config.FrameName; name != "" && sheets != nil {
		f, _, err := sheets.Frame(name)
		if err != nil {
			return err
		}
		frameHalf = mgl32.Vec2{float32(f.SourceW) / 2, float32(f.SourceH) / 2}
	}
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		size := min(max(p.size, 0), math.MaxUint16)
		side := uint16(size + 0.5)
		t := Transform{W: side, H: side, Visible: true}
		half := mgl32.Vec2{size / 2, size / 2}
		if e.config.FrameName != "" {
			half = frameHalf
		}
		pos := abs.Add(mgl32.Vec3{p.pos[0] - half[0], p.pos[1] - half[1], 0})
		if err := r.Render(&t, e.config.FrameName, sheets, &p.color, pos); err != nil {
			return err
		}
	}
	return nil
}

func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// EmitterComponent attaches an Emitter to an entity.
var EmitterComponent = donburi.NewComponentType[Emitter]()

// UpdateEmitters advances every Emitter in w by dt seconds.
func UpdateEmitters(w donburi.World, dt float32) {
	EmitterComponent.Each(w, func(entry *donburi.Entry) {
		EmitterComponent.Get(entry).Update(dt)
	})
}
