package metrics

import "github.com/san-kum/slitsim/internal/sim"

// Throughput is the mean number of screen landings per tick.
type Throughput struct {
	name   string
	ticks  int
	landed int
}

func NewThroughput() *Throughput {
	return &Throughput{name: "throughput"}
}

func (m *Throughput) Name() string { return m.name }

func (m *Throughput) Observe(r sim.TickReport) {
	m.landed += r.Landed
	m.ticks++
}

func (m *Throughput) Value() float64 {
	if m.ticks == 0 {
		return 0
	}
	return float64(m.landed) / float64(m.ticks)
}

func (m *Throughput) Reset() {
	m.ticks = 0
	m.landed = 0
}

// Exhaustion is the fraction of barrier crossings whose screen target was a
// fallback rather than an accepted sample.
type Exhaustion struct {
	name      string
	crossed   int
	exhausted int
}

func NewExhaustion() *Exhaustion {
	return &Exhaustion{name: "exhaustion"}
}

func (m *Exhaustion) Name() string { return m.name }

func (m *Exhaustion) Observe(r sim.TickReport) {
	m.crossed += r.Crossed
	m.exhausted += r.Exhausted
}

func (m *Exhaustion) Value() float64 {
	if m.crossed == 0 {
		return 0
	}
	return float64(m.exhausted) / float64(m.crossed)
}

func (m *Exhaustion) Reset() {
	m.crossed = 0
	m.exhausted = 0
}
