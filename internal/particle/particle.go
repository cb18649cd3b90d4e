// Package particle implements the two-phase kinematic state machine that
// carries one particle from the source, through a slit, to the screen.
package particle

import (
	"math/rand/v2"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/optics"
)

type Phase uint8

const (
	ApproachingBarrier Phase = iota
	ApproachingScreen
)

func (p Phase) String() string {
	switch p {
	case ApproachingBarrier:
		return "approaching_barrier"
	case ApproachingScreen:
		return "approaching_screen"
	}
	return "unknown"
}

type Slit uint8

const (
	Left Slit = iota
	Right
)

func (s Slit) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// SlitFor alternates slit assignment by pool index.
func SlitFor(index int) Slit {
	if index%2 == 0 {
		return Left
	}
	return Right
}

// Offset is the slit center on the x axis.
func (s Slit) Offset(cfg dynamo.SimulationConfig) float64 {
	left, right := optics.SlitCenters(cfg)
	if s == Left {
		return left
	}
	return right
}

type Particle struct {
	Pos   dynamo.Vec3
	Vel   dynamo.Vec3
	Phase Phase
	Slit  Slit
	Speed float64 // forward speed, fixed for the particle's lifetime
}

// Spawn places a new particle behind the barrier at a random depth.
func Spawn(index int, sc dynamo.Scale, rng *rand.Rand) Particle {
	p := Particle{
		Slit:  SlitFor(index),
		Speed: sc.BaseSpeed + rng.Float64()*sc.SpeedJitter,
	}
	p.emit(sc, sc.SpawnDepth, rng)
	return p
}

// Rewind sends the particle back to the source without changing its slit or speed.
func (p *Particle) Rewind(sc dynamo.Scale, rng *rand.Rand) {
	p.emit(sc, sc.SpawnDepth, rng)
}

// recycle moves a landed particle back behind the source. x and y stay at the
// landing point and homing pulls the particle back toward its slit.
func (p *Particle) recycle(sc dynamo.Scale, rng *rand.Rand) {
	p.Pos.Z = sc.SourceZ - rng.Float64()*sc.RecycleDepth
	p.Vel = dynamo.Vec3{Z: p.Speed}
	p.Phase = ApproachingBarrier
}

func (p *Particle) emit(sc dynamo.Scale, depth float64, rng *rand.Rand) {
	p.Pos = dynamo.Vec3{
		X: (rng.Float64() - 0.5) * sc.SourceScatter,
		Y: (rng.Float64() - 0.5) * sc.SourceScatter,
		Z: sc.SourceZ - rng.Float64()*depth,
	}
	p.Vel = dynamo.Vec3{Z: p.Speed}
	p.Phase = ApproachingBarrier
}
