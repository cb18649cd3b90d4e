package particle_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/particle"
	"github.com/san-kum/slitsim/internal/sampler"
)

var _ = Describe("Kinematics", func() {
	var (
		cfg dynamo.SimulationConfig
		sc  dynamo.Scale
		smp *sampler.Sampler
		rng *rand.Rand
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultSimulationConfig()
		sc = dynamo.DefaultScale()
		smp = sampler.New(sc)
		rng = rand.New(rand.NewPCG(42, 0))
	})

	Describe("slit assignment", func() {
		It("alternates by index", func() {
			Expect(particle.SlitFor(0)).To(Equal(particle.Left))
			Expect(particle.SlitFor(1)).To(Equal(particle.Right))
			Expect(particle.SlitFor(6)).To(Equal(particle.Left))
		})

		It("places slits symmetrically about the axis", func() {
			Expect(particle.Left.Offset(cfg)).To(Equal(-0.75))
			Expect(particle.Right.Offset(cfg)).To(Equal(0.75))
		})
	})

	Describe("Spawn", func() {
		It("starts behind the barrier in the first phase", func() {
			for i := 0; i < 200; i++ {
				p := particle.Spawn(i, sc, rng)
				Expect(p.Phase).To(Equal(particle.ApproachingBarrier))
				Expect(p.Pos.Z).To(BeNumerically("<=", sc.SourceZ))
				Expect(p.Pos.Z).To(BeNumerically(">", sc.SourceZ-sc.SpawnDepth))
				Expect(p.Speed).To(BeNumerically(">=", sc.BaseSpeed))
				Expect(p.Speed).To(BeNumerically("<", sc.BaseSpeed+sc.SpeedJitter))
				Expect(p.Slit).To(Equal(particle.SlitFor(i)))
			}
		})
	})

	Describe("approaching the barrier", func() {
		It("reaches the wall in a bounded number of ticks", func() {
			p := particle.Particle{
				Pos:   dynamo.Vec3{Z: -10},
				Phase: particle.ApproachingBarrier,
				Speed: 0.12,
			}

			ticks := 0
			for p.Phase == particle.ApproachingBarrier {
				ev := particle.Step(&p, cfg, sc, smp, rng)
				ticks++
				if ev.Kind == particle.Crossed {
					break
				}
				Expect(ticks).To(BeNumerically("<", 1000))
			}
			Expect(ticks).To(Equal(67))
		})

		It("keeps z monotonically non-decreasing", func() {
			p := particle.Spawn(3, sc, rng)
			prev := p.Pos.Z
			for p.Phase == particle.ApproachingBarrier {
				particle.Step(&p, cfg, sc, smp, rng)
				if p.Phase == particle.ApproachingBarrier {
					Expect(p.Pos.Z).To(BeNumerically(">=", prev))
					prev = p.Pos.Z
				}
			}
		})

		It("homes toward its slit before the wall", func() {
			p := particle.Particle{
				Pos:   dynamo.Vec3{X: 0.4, Y: -0.3, Z: -10},
				Phase: particle.ApproachingBarrier,
				Slit:  particle.Left,
				Speed: 0.1,
			}
			var last dynamo.Vec3
			for p.Phase == particle.ApproachingBarrier {
				last = p.Pos
				particle.Step(&p, cfg, sc, smp, rng)
			}
			Expect(last.X).To(BeNumerically("~", particle.Left.Offset(cfg), 0.05))
			Expect(last.Y).To(BeNumerically("~", 0, 0.05))
		})

		It("snaps into the slit aperture on crossing", func() {
			for i := 0; i < 100; i++ {
				p := particle.Spawn(i, sc, rng)
				var ev particle.Event
				for ev.Kind != particle.Crossed {
					ev = particle.Step(&p, cfg, sc, smp, rng)
				}

				Expect(p.Phase).To(Equal(particle.ApproachingScreen))
				Expect(p.Pos.Z).To(BeNumerically("~", sc.WallZ+sc.WallOffset, 1e-12))
				Expect(p.Pos.X).To(BeNumerically("~", p.Slit.Offset(cfg), cfg.SlitWidth/2))
				Expect(p.Pos.Y).To(BeNumerically("~", 0, sc.SlitHeight/2))
				Expect(ev.Draw.Attempts).To(BeNumerically(">=", 1))
			}
		})

		It("aims the straight flight at the sampled target", func() {
			p := particle.Spawn(0, sc, rng)
			var ev particle.Event
			for ev.Kind != particle.Crossed {
				ev = particle.Step(&p, cfg, sc, smp, rng)
			}

			total := (sc.ScreenZ(cfg) - sc.WallZ) / p.Speed
			arrivalX := p.Pos.X + p.Vel.X*total
			Expect(arrivalX).To(BeNumerically("~", ev.Draw.X, 1e-9))
			Expect(p.Vel.Z).To(Equal(p.Speed))
		})
	})

	Describe("approaching the screen", func() {
		It("flies in a straight line without recomputing velocity", func() {
			p := particle.Spawn(1, sc, rng)
			for p.Phase == particle.ApproachingBarrier {
				particle.Step(&p, cfg, sc, smp, rng)
			}
			vel := p.Vel
			for i := 0; i < 20 && p.Phase == particle.ApproachingScreen; i++ {
				particle.Step(&p, cfg, sc, smp, rng)
				if p.Phase == particle.ApproachingScreen {
					Expect(p.Vel).To(Equal(vel))
				}
			}
		})

		It("recycles behind the barrier after passing the screen", func() {
			p := particle.Spawn(5, sc, rng)
			slit, speed := p.Slit, p.Speed

			var landed particle.Event
			for i := 0; i < 10000 && landed.Kind != particle.Landed; i++ {
				landed = particle.Step(&p, cfg, sc, smp, rng)
			}

			Expect(landed.Kind).To(Equal(particle.Landed))
			Expect(landed.Landing.Z).To(BeNumerically(">", sc.ScreenZ(cfg)))
			Expect(p.Phase).To(Equal(particle.ApproachingBarrier))
			Expect(p.Pos.Z).To(BeNumerically("<", sc.WallZ))
			Expect(p.Pos.Z).To(BeNumerically(">", sc.SourceZ-sc.RecycleDepth))
			Expect(p.Vel.X).To(BeZero())
			Expect(p.Vel.Y).To(BeZero())
			Expect(p.Slit).To(Equal(slit))
			Expect(p.Speed).To(Equal(speed))
			Expect(p.Pos.X).To(Equal(landed.Landing.X))
			Expect(p.Pos.Y).To(Equal(landed.Landing.Y))
		})

		It("lands where the sampler aimed", func() {
			p := particle.Spawn(2, sc, rng)
			var crossed, landed particle.Event
			for landed.Kind != particle.Landed {
				ev := particle.Step(&p, cfg, sc, smp, rng)
				switch ev.Kind {
				case particle.Crossed:
					crossed = ev
				case particle.Landed:
					landed = ev
				}
			}
			// overshoot past the screen plane is under one tick of lateral drift
			Expect(landed.Landing.X).To(BeNumerically("~", crossed.Draw.X, 0.5))
		})
	})

	Describe("Rewind", func() {
		It("returns the particle to the source", func() {
			p := particle.Spawn(4, sc, rng)
			for p.Phase == particle.ApproachingBarrier {
				particle.Step(&p, cfg, sc, smp, rng)
			}
			p.Rewind(sc, rng)
			Expect(p.Phase).To(Equal(particle.ApproachingBarrier))
			Expect(p.Pos.Z).To(BeNumerically("<=", sc.SourceZ))
			Expect(p.Vel.X).To(BeZero())
		})
	})

	It("names phases and slits", func() {
		Expect(particle.ApproachingBarrier.String()).To(Equal("approaching_barrier"))
		Expect(particle.ApproachingScreen.String()).To(Equal("approaching_screen"))
		Expect(particle.Left.String()).To(Equal("left"))
		Expect(particle.Right.String()).To(Equal("right"))
	})
})
