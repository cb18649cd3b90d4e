package sim

import (
	"math/rand/v2"

	"github.com/san-kum/slitsim/internal/compute"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/particle"
	"github.com/san-kum/slitsim/internal/sampler"
)

// Snapshot holds particle positions after a tick. Positions is owned by the
// pool and overwritten by the next Advance.
type Snapshot struct {
	Tick      uint64
	Positions []dynamo.Vec3
}

// Pool owns a fixed arena of particles. Slots are reset in place and never
// reallocated; changing the particle count requires Rebuild.
type Pool struct {
	sc        dynamo.Scale
	sampler   *sampler.Sampler
	backend   compute.Backend
	seed      uint64
	particles []particle.Particle
	rngs      []*rand.Rand
	events    []particle.Event
	positions []dynamo.Vec3
	tick      uint64
	lastSep   float64
	seenSep   bool
	report    TickReport
	observers []Observer
}

type Option func(*Pool)

func WithSeed(seed int64) Option {
	return func(p *Pool) { p.seed = uint64(seed) }
}

func WithBackend(b compute.Backend) Option {
	return func(p *Pool) { p.backend = b }
}

func WithSampler(s *sampler.Sampler) Option {
	return func(p *Pool) { p.sampler = s }
}

func NewPool(cfg dynamo.SimulationConfig, sc dynamo.Scale, opts ...Option) *Pool {
	p := &Pool{
		sc:      sc,
		backend: compute.NewSerialBackend(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sampler == nil {
		p.sampler = sampler.New(sc)
	}
	p.Rebuild(cfg)
	return p
}

// Rebuild discards every particle and allocates cfg.ParticleCount fresh slots.
func (p *Pool) Rebuild(cfg dynamo.SimulationConfig) {
	n := cfg.ParticleCount
	if n < 0 {
		n = 0
	}
	p.particles = make([]particle.Particle, n)
	p.rngs = make([]*rand.Rand, n)
	p.events = make([]particle.Event, n)
	p.positions = make([]dynamo.Vec3, n)
	p.report.Hits = make([]Hit, 0, n/16+1)
	p.spawn()
}

// Reset respawns every slot from its seed, restarting the tick counter.
func (p *Pool) Reset() {
	p.spawn()
}

func (p *Pool) spawn() {
	for i := range p.particles {
		p.rngs[i] = rand.New(rand.NewPCG(p.seed, uint64(i)))
		p.particles[i] = particle.Spawn(i, p.sc, p.rngs[i])
		p.positions[i] = p.particles[i].Pos
	}
	p.tick = 0
	p.seenSep = false
}

func (p *Pool) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// Advance runs deltaTicks ticks against cfg and returns the resulting
// positions. A paused config mutates nothing.
func (p *Pool) Advance(cfg dynamo.SimulationConfig, deltaTicks int) Snapshot {
	if cfg.IsPlaying {
		for t := 0; t < deltaTicks; t++ {
			p.step(cfg)
		}
	}
	return p.Snapshot()
}

func (p *Pool) step(cfg dynamo.SimulationConfig) {
	n := len(p.particles)
	if n == 0 {
		return
	}

	// particles homing on old slit positions would cut through the barrier
	if p.seenSep && cfg.SlitSeparation != p.lastSep {
		p.rewind()
	}
	p.lastSep, p.seenSep = cfg.SlitSeparation, true

	p.backend.ForEach(n, func(start, end int) {
		for i := start; i < end; i++ {
			p.events[i] = particle.Step(&p.particles[i], cfg, p.sc, p.sampler, p.rngs[i])
			p.positions[i] = p.particles[i].Pos
		}
	})
	p.tick++

	p.collect()
	for _, o := range p.observers {
		o.OnTick(p.report)
	}
}

func (p *Pool) rewind() {
	for i := range p.particles {
		p.particles[i].Rewind(p.sc, p.rngs[i])
		p.positions[i] = p.particles[i].Pos
	}
}

func (p *Pool) collect() {
	r := &p.report
	r.Tick = p.tick
	r.Crossed, r.Landed, r.Exhausted, r.InFlight = 0, 0, 0, 0
	r.Total = len(p.particles)
	r.Hits = r.Hits[:0]

	for i, ev := range p.events {
		switch ev.Kind {
		case particle.Crossed:
			r.Crossed++
			if !ev.Draw.Accepted {
				r.Exhausted++
			}
		case particle.Landed:
			r.Landed++
			r.Hits = append(r.Hits, Hit{
				Tick:  p.tick,
				Index: i,
				X:     ev.Landing.X,
				Y:     ev.Landing.Y,
				Slit:  p.particles[i].Slit,
			})
		}
		if p.particles[i].Phase == particle.ApproachingScreen {
			r.InFlight++
		}
	}
}

func (p *Pool) Snapshot() Snapshot {
	return Snapshot{Tick: p.tick, Positions: p.positions}
}

// Particles returns a copy of the arena.
func (p *Pool) Particles() []particle.Particle {
	out := make([]particle.Particle, len(p.particles))
	copy(out, p.particles)
	return out
}

func (p *Pool) Len() int                  { return len(p.particles) }
func (p *Pool) Tick() uint64              { return p.tick }
func (p *Pool) Scale() dynamo.Scale       { return p.sc }
func (p *Pool) Sampler() *sampler.Sampler { return p.sampler }
func (p *Pool) Backend() compute.Backend  { return p.backend }
func (p *Pool) LastReport() TickReport    { return p.report }
