package metrics

import (
	"math"

	"github.com/san-kum/slitsim/internal/sim"
)

// Occupancy is the mean fraction of the pool flying between barrier and screen.
type Occupancy struct {
	name    string
	samples int
	total   float64
	peak    float64
}

func NewOccupancy() *Occupancy {
	return &Occupancy{name: "occupancy"}
}

func (m *Occupancy) Name() string { return m.name }

func (m *Occupancy) Observe(r sim.TickReport) {
	if r.Total == 0 {
		return
	}
	frac := float64(r.InFlight) / float64(r.Total)
	m.total += frac
	m.peak = math.Max(m.peak, frac)
	m.samples++
}

func (m *Occupancy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Occupancy) Peak() float64 { return m.peak }

func (m *Occupancy) Reset() {
	m.samples = 0
	m.total = 0
	m.peak = 0
}

// CentralFraction is the share of landings within halfWidth of the axis.
type CentralFraction struct {
	name      string
	halfWidth float64
	hits      int
	central   int
}

func NewCentralFraction(halfWidth float64) *CentralFraction {
	return &CentralFraction{name: "central_fraction", halfWidth: math.Abs(halfWidth)}
}

func (m *CentralFraction) Name() string { return m.name }

func (m *CentralFraction) Observe(r sim.TickReport) {
	for _, h := range r.Hits {
		m.hits++
		if math.Abs(h.X) <= m.halfWidth {
			m.central++
		}
	}
}

func (m *CentralFraction) Value() float64 {
	if m.hits == 0 {
		return 0
	}
	return float64(m.central) / float64(m.hits)
}

func (m *CentralFraction) Reset() {
	m.hits = 0
	m.central = 0
}

// Standard returns the metric set attached to headless runs.
func Standard(centralHalfWidth float64) []sim.Metric {
	return []sim.Metric{
		NewThroughput(),
		NewExhaustion(),
		NewOccupancy(),
		NewCentralFraction(centralHalfWidth),
	}
}
