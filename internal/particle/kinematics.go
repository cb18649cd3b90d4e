package particle

import (
	"math/rand/v2"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sampler"
)

type EventKind uint8

const (
	None EventKind = iota
	Crossed
	Landed
)

// Event describes a phase transition that happened during a step.
type Event struct {
	Kind    EventKind
	Draw    sampler.Draw // set for Crossed
	Landing dynamo.Vec3  // set for Landed
}

// Step advances p by one tick.
func Step(p *Particle, cfg dynamo.SimulationConfig, sc dynamo.Scale, s *sampler.Sampler, rng *rand.Rand) Event {
	switch p.Phase {
	case ApproachingScreen:
		return stepToScreen(p, cfg, sc, rng)
	default:
		return stepToBarrier(p, cfg, sc, s, rng)
	}
}

func stepToBarrier(p *Particle, cfg dynamo.SimulationConfig, sc dynamo.Scale, s *sampler.Sampler, rng *rand.Rand) Event {
	p.Vel.Z = p.Speed

	// home on the assigned slit, arriving as z reaches the wall
	if dist := sc.WallZ - p.Pos.Z; dist > 0 && p.Speed > 0 {
		ticks := dist / p.Speed
		p.Vel.X = (p.Slit.Offset(cfg) - p.Pos.X) / ticks
		p.Vel.Y = (0 - p.Pos.Y) / ticks
	}

	p.Pos = p.Pos.Add(p.Vel)
	if p.Pos.Z < sc.WallZ {
		return Event{}
	}

	p.Pos.Z = sc.WallZ + sc.WallOffset
	p.Pos.X = p.Slit.Offset(cfg) + (rng.Float64()-0.5)*cfg.SlitWidth
	p.Pos.Y = (rng.Float64() - 0.5) * sc.SlitHeight

	d := s.Draw(cfg, rng)
	targetY := (rng.Float64() - 0.5) * sc.ScreenSpreadY

	p.Vel.X, p.Vel.Y = 0, 0
	if total := (sc.ScreenZ(cfg) - sc.WallZ) / p.Speed; total > 0 {
		p.Vel.X = (d.X - p.Pos.X) / total
		p.Vel.Y = (targetY - p.Pos.Y) / total
	}
	p.Phase = ApproachingScreen

	return Event{Kind: Crossed, Draw: d}
}

func stepToScreen(p *Particle, cfg dynamo.SimulationConfig, sc dynamo.Scale, rng *rand.Rand) Event {
	p.Pos = p.Pos.Add(p.Vel)
	if p.Pos.Z <= sc.ScreenZ(cfg) {
		return Event{}
	}

	landing := p.Pos
	p.recycle(sc, rng)
	return Event{Kind: Landed, Landing: landing}
}
