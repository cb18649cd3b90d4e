package sim

import (
	"log/slog"

	"github.com/san-kum/slitsim/internal/particle"
)

// Hit is a particle landing on the screen.
type Hit struct {
	Tick  uint64
	Index int
	X, Y  float64
	Slit  particle.Slit
}

// TickReport summarizes one pool tick. Hits is reused between ticks;
// observers that keep hits must copy them.
type TickReport struct {
	Tick      uint64
	Crossed   int
	Landed    int
	Exhausted int
	InFlight  int
	Total     int
	Hits      []Hit
}

func (r TickReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", r.Tick),
		slog.Int("crossed", r.Crossed),
		slog.Int("landed", r.Landed),
		slog.Int("exhausted", r.Exhausted),
		slog.Int("in_flight", r.InFlight),
		slog.Int("total", r.Total),
	)
}

type Observer interface {
	OnTick(r TickReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r TickReport)

func (f ObserverFunc) OnTick(r TickReport) { f(r) }

type Metric interface {
	Name() string
	Observe(r TickReport)
	Value() float64
	Reset()
}
