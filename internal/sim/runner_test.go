package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sampler"
	"github.com/san-kum/slitsim/internal/sim"
)

type countMetric struct {
	ticks int
}

func (m *countMetric) Name() string             { return "count" }
func (m *countMetric) Observe(r sim.TickReport) { m.ticks++ }
func (m *countMetric) Value() float64           { return float64(m.ticks) }
func (m *countMetric) Reset()                   { m.ticks = 0 }

var _ = Describe("Runner", func() {
	var (
		cfg dynamo.SimulationConfig
		sc  dynamo.Scale
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultSimulationConfig()
		cfg.ParticleCount = 300
		sc = dynamo.DefaultScale()
	})

	It("rejects a non-positive tick count", func() {
		r := sim.NewRunner(sim.NewPool(cfg, sc))
		_, err := r.Run(context.Background(), cfg, 0)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})

	It("collects landings and metrics", func() {
		r := sim.NewRunner(sim.NewPool(cfg, sc, sim.WithSeed(1)))
		r.AddMetric(&countMetric{})

		res, err := r.Run(context.Background(), cfg, 400)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Ticks).To(Equal(400))
		Expect(res.Landings).To(HaveLen(400))
		Expect(res.Metrics["count"]).To(Equal(400.0))

		total := 0
		for _, n := range res.Landings {
			total += n
		}
		Expect(res.Hits).To(HaveLen(total))
		Expect(res.HitXs()).To(HaveLen(total))
		Expect(total).To(BeNumerically(">", 0))
	})

	It("plays even when the config is paused", func() {
		cfg.IsPlaying = false
		r := sim.NewRunner(sim.NewPool(cfg, sc))
		res, err := r.Run(context.Background(), cfg, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Pool().Tick()).To(Equal(uint64(5)))
		Expect(res.Ticks).To(Equal(5))
	})

	It("rebuilds when the particle count differs", func() {
		r := sim.NewRunner(sim.NewPool(cfg, sc))
		cfg.ParticleCount = 40
		_, err := r.Run(context.Background(), cfg, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Pool().Len()).To(Equal(40))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := sim.NewRunner(sim.NewPool(cfg, sc))
		res, err := r.Run(ctx, cfg, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Ticks).To(BeZero())
	})

	It("reports exhaustion for the narrow default pattern", func() {
		r := sim.NewRunner(sim.NewPool(cfg, sc, sim.WithSeed(6)))
		res, err := r.Run(context.Background(), cfg, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Crossings).To(BeNumerically(">", 0))
		Expect(res.ExhaustionRate()).To(BeNumerically(">", 0.9))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one independent pool per seed", func() {
		cfg := dynamo.DefaultSimulationConfig()
		cfg.ParticleCount = 100
		sc := dynamo.DefaultScale()

		e := sim.NewEnsemble(sc, sampler.New(sc), 3, 10).WithMetrics(func() []sim.Metric {
			return []sim.Metric{&countMetric{}}
		})
		results, err := e.Run(context.Background(), cfg, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, res := range results {
			Expect(res.Ticks).To(Equal(50))
			Expect(res.Metrics["count"]).To(Equal(50.0))
		}
	})
})
