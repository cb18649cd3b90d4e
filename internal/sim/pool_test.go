package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slitsim/internal/compute"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/particle"
	"github.com/san-kum/slitsim/internal/sim"
)

var _ = Describe("Pool", func() {
	var (
		cfg dynamo.SimulationConfig
		sc  dynamo.Scale
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultSimulationConfig()
		cfg.ParticleCount = 600
		sc = dynamo.DefaultScale()
	})

	It("allocates one slot per particle", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(1))
		Expect(p.Len()).To(Equal(600))
		Expect(p.Snapshot().Positions).To(HaveLen(600))
		Expect(p.Tick()).To(BeZero())
	})

	It("treats a non-positive count as an empty pool", func() {
		cfg.ParticleCount = -5
		p := sim.NewPool(cfg, sc)
		Expect(p.Len()).To(BeZero())

		snap := p.Advance(cfg, 10)
		Expect(snap.Positions).To(BeEmpty())
		Expect(p.Tick()).To(BeZero())
	})

	It("does not mutate while paused", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(3))
		p.Advance(cfg, 50)
		before := p.Particles()
		tick := p.Tick()

		cfg.IsPlaying = false
		p.Advance(cfg, 500)

		Expect(p.Particles()).To(Equal(before))
		Expect(p.Tick()).To(Equal(tick))
	})

	It("ignores separation changes while paused until play resumes", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(3))
		p.Advance(cfg, 10)

		cfg.IsPlaying = false
		cfg.SlitSeparation = 2.5
		before := p.Particles()
		p.Advance(cfg, 10)
		Expect(p.Particles()).To(Equal(before))
	})

	It("counts ticks", func() {
		p := sim.NewPool(cfg, sc)
		p.Advance(cfg, 7)
		p.Advance(cfg, 3)
		Expect(p.Tick()).To(Equal(uint64(10)))
		Expect(p.LastReport().Tick).To(Equal(uint64(10)))
	})

	It("is reproducible for a fixed seed", func() {
		a := sim.NewPool(cfg, sc, sim.WithSeed(11))
		b := sim.NewPool(cfg, sc, sim.WithSeed(11))
		a.Advance(cfg, 300)
		b.Advance(cfg, 300)
		Expect(a.Particles()).To(Equal(b.Particles()))
	})

	It("matches serial execution on the parallel backend", func() {
		cfg.ParticleCount = 2000
		serial := sim.NewPool(cfg, sc, sim.WithSeed(5), sim.WithBackend(compute.NewSerialBackend()))
		parallel := sim.NewPool(cfg, sc, sim.WithSeed(5), sim.WithBackend(compute.NewCPUBackend()))

		var serialHits, parallelHits []sim.Hit
		for i := 0; i < 400; i++ {
			serial.Advance(cfg, 1)
			parallel.Advance(cfg, 1)
			serialHits = append(serialHits, serial.LastReport().Hits...)
			parallelHits = append(parallelHits, parallel.LastReport().Hits...)
		}

		Expect(parallel.Particles()).To(Equal(serial.Particles()))
		Expect(parallelHits).To(Equal(serialHits))
	})

	It("recycles landed particles behind the source", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(9))
		landed := 0
		for i := 0; i < 500; i++ {
			p.Advance(cfg, 1)
			rep := p.LastReport()
			landed += rep.Landed
			parts := p.Particles()
			for _, h := range rep.Hits {
				q := parts[h.Index]
				Expect(q.Phase).To(Equal(particle.ApproachingBarrier))
				Expect(q.Pos.Z).To(BeNumerically("<=", sc.SourceZ))
				Expect(q.Pos.Z).To(BeNumerically(">", sc.SourceZ-sc.RecycleDepth))
			}
		}
		Expect(landed).To(BeNumerically(">", 0))
		Expect(p.Len()).To(Equal(600))
	})

	It("reports hits in slot order", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(2))
		for i := 0; i < 400; i++ {
			p.Advance(cfg, 1)
			hits := p.LastReport().Hits
			for j := 1; j < len(hits); j++ {
				Expect(hits[j].Index).To(BeNumerically(">", hits[j-1].Index))
			}
		}
	})

	It("keeps every landing on the screen plane", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(4))
		for i := 0; i < 400; i++ {
			p.Advance(cfg, 1)
			for _, h := range p.LastReport().Hits {
				Expect(h.X).To(BeNumerically("~", 0, sc.HalfWidth()+1))
				Expect(h.Slit).To(Equal(particle.SlitFor(h.Index)))
			}
		}
	})

	It("rewinds every particle when the separation changes", func() {
		p := sim.NewPool(cfg, sc, sim.WithSeed(8))
		p.Advance(cfg, 150)

		cfg.SlitSeparation = 2.0
		p.Advance(cfg, 1)

		for _, q := range p.Particles() {
			Expect(q.Phase).To(Equal(particle.ApproachingBarrier))
			Expect(q.Pos.Z).To(BeNumerically("<", sc.WallZ))
			Expect(q.Pos.Z).To(BeNumerically(">", sc.SourceZ-sc.SpawnDepth-1))
		}
	})

	It("rebuilds to a new particle count", func() {
		p := sim.NewPool(cfg, sc)
		p.Advance(cfg, 10)

		cfg.ParticleCount = 50
		p.Advance(cfg, 1)
		Expect(p.Len()).To(Equal(600))

		p.Rebuild(cfg)
		Expect(p.Len()).To(Equal(50))
		Expect(p.Tick()).To(BeZero())
	})

	It("notifies observers every tick", func() {
		p := sim.NewPool(cfg, sc)
		ticks := 0
		p.AddObserver(sim.ObserverFunc(func(r sim.TickReport) {
			ticks++
			Expect(r.Total).To(Equal(600))
			Expect(r.InFlight).To(BeNumerically("<=", r.Total))
		}))
		p.Advance(cfg, 25)
		Expect(ticks).To(Equal(25))
	})
})
