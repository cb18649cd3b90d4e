package optics

import "github.com/san-kum/slitsim/internal/dynamo"

// Segment is a solid barrier piece spanning [MinX, MaxX] on the wall plane.
type Segment struct {
	MinX, MaxX float64
}

func (s Segment) Width() float64  { return s.MaxX - s.MinX }
func (s Segment) Center() float64 { return (s.MinX + s.MaxX) / 2 }

// Barrier is the wall split into two wings and the post between the slits.
type Barrier struct {
	Z             float64
	Height        float64
	Left, Right   Segment
	Center        Segment
	CenterVisible bool
}

// Layout derives the wall pieces for a configuration. When the slits overlap
// the center post has no width and is reported as not visible.
func Layout(cfg dynamo.SimulationConfig, sc dynamo.Scale) Barrier {
	half := sc.BarrierWidth / 2
	inner := (cfg.SlitSeparation + cfg.SlitWidth) / 2
	if inner > half {
		inner = half
	}
	post := (cfg.SlitSeparation - cfg.SlitWidth) / 2

	b := Barrier{
		Z:      sc.WallZ,
		Height: sc.BarrierHeight,
		Left:   Segment{MinX: -half, MaxX: -inner},
		Right:  Segment{MinX: inner, MaxX: half},
	}
	if post > 0 {
		b.Center = Segment{MinX: -post, MaxX: post}
		b.CenterVisible = true
	}
	return b
}

// SlitCenters returns the x offsets of the left and right slit.
func SlitCenters(cfg dynamo.SimulationConfig) (left, right float64) {
	return -cfg.SlitSeparation / 2, cfg.SlitSeparation / 2
}
