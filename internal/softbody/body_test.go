package softbody

import (
	"math"

	"github.com/jakecoffman/cp/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const frameDt = 1.0 / 60

var (
	screen = Bounds{Width: 1600, Height: 900}
	center = cp.Vector{X: 800, Y: 450}
)

func minPairDistance(b *Body) float64 {
	best := math.Inf(1)
	for i := 0; i < b.Len(); i++ {
		for j := i + 1; j < b.Len(); j++ {
			best = math.Min(best, b.Point(i).Position.Distance(b.Point(j).Position))
		}
	}
	return best
}

var _ = Describe("Body", func() {
	var b *Body

	BeforeEach(func() {
		b = New(center, 20, DefaultParams())
	})

	Describe("construction", func() {
		It("places points evenly on the rest circle", func() {
			Expect(b.Len()).To(Equal(20))
			for i := 0; i < b.Len(); i++ {
				p := b.Point(i)
				Expect(p.Position.Distance(center)).To(BeNumerically("~", 30, 1e-9))
				angle := float64(i) * 2 * math.Pi / 20
				Expect(p.Position.X).To(BeNumerically("~", 800+30*math.Cos(angle), 1e-9))
				Expect(p.Position.Y).To(BeNumerically("~", 450+30*math.Sin(angle), 1e-9))
				Expect(p.Velocity).To(Equal(cp.Vector{}))
				Expect(p.Force).To(Equal(cp.Vector{}))
				Expect(p.Mass).To(Equal(1.0))
			}
		})

		It("starts with its centroid on the center", func() {
			c := b.Centroid()
			Expect(c.X).To(BeNumerically("~", 800, 1e-9))
			Expect(c.Y).To(BeNumerically("~", 450, 1e-9))
		})

		It("is idle", func() {
			_, ok := b.Dragged()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("topology", func() {
		It("keeps N points across many frames", func() {
			for frame := 0; frame < 300; frame++ {
				b.Update(frameDt, screen)
				Expect(b.Len()).To(Equal(20))
				Expect(b.Snapshot()).To(HaveLen(20))
			}
		})
	})

	Describe("dt clamp", func() {
		It("integrates a large dt as MaxDt", func() {
			clamped := New(center, 20, DefaultParams())
			capped := New(center, 20, DefaultParams())
			clamped.Update(0.5, screen)
			capped.Update(DefaultMaxDt, screen)
			Expect(clamped.Snapshot()).To(Equal(capped.Snapshot()))
		})

		It("applies gravity for exactly one step from rest", func() {
			b.Update(0.01, screen)
			damp := 1 - DefaultDamping*0.01
			vy := DefaultGravity * 0.01 * damp
			for i := 0; i < b.Len(); i++ {
				Expect(b.Point(i).Velocity.Y).To(BeNumerically("~", vy, 1e-9))
				Expect(b.Point(i).Velocity.X).To(BeNumerically("~", 0, 1e-12))
			}
		})
	})

	Describe("boundary collision", func() {
		It("clamps and reflects with damping on the floor", func() {
			body := New(cp.Vector{X: 100, Y: 100}, 3, Params{
				RestRadius: 1, Mass: 1, MaxDt: 0.02, Damping: 0.5,
			})
			body.points[0].Position = cp.Vector{X: 50, Y: 99.9}
			body.points[0].Velocity = cp.Vector{X: 0, Y: 100}
			body.Update(0.02, Bounds{Width: 100, Height: 100})
			p := body.Point(0)
			Expect(p.Position.Y).To(Equal(100.0))
			Expect(p.Velocity.Y).To(BeNumerically("<", 0))
			Expect(p.Velocity.Y).To(BeNumerically("~", -100*(1-0.5*0.02)*0.5, 1e-9))
		})

		It("applies both clamps in a corner", func() {
			body := New(cp.Vector{X: 50, Y: 50}, 3, Params{
				RestRadius: 1, Mass: 1, MaxDt: 0.02, Damping: 0.1,
			})
			body.points[1].Position = cp.Vector{X: 0.1, Y: 0.1}
			body.points[1].Velocity = cp.Vector{X: -100, Y: -100}
			body.Update(0.02, Bounds{Width: 100, Height: 100})
			p := body.Point(1)
			Expect(p.Position).To(Equal(cp.Vector{}))
			Expect(p.Velocity.X).To(BeNumerically(">", 0))
			Expect(p.Velocity.Y).To(BeNumerically(">", 0))
		})

		It("keeps every free point inside the viewport", func() {
			for frame := 0; frame < 600; frame++ {
				b.Update(frameDt, screen)
				for i := 0; i < b.Len(); i++ {
					Expect(screen.Contains(b.Point(i).Position)).To(BeTrue(), "frame %d point %d", frame, i)
				}
			}
		})
	})

	Describe("spring pass", func() {
		It("applies equal and opposite forces to each adjacent pair", func() {
			for frame := 0; frame < 30; frame++ {
				b.Update(frameDt, screen)
			}
			for i := 0; i < b.Len(); i++ {
				for k := range b.points {
					b.points[k].Force = cp.Vector{}
				}
				b.applySpring(i)
				next := (i + 1) % b.Len()
				Expect(b.points[i].Force).To(Equal(b.points[next].Force.Neg()))
			}
		})

		It("is silent at rest length", func() {
			body := New(cp.Vector{}, 3, Params{RestRadius: 10, Stiffness: 1000, Mass: 1, MaxDt: 0.02})
			body.points[0].Position = cp.Vector{X: 0, Y: 0}
			body.points[1].Position = cp.Vector{X: 10, Y: 0}
			f, next, ok := body.springForce(0)
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(1))
			Expect(f.Length()).To(BeNumerically("~", 0, 1e-9))
		})

		It("compresses when shorter than rest length", func() {
			body := New(cp.Vector{}, 3, Params{RestRadius: 10, Stiffness: 100, Mass: 1, MaxDt: 0.02})
			body.points[2].Position = cp.Vector{X: 4, Y: 0}
			body.points[0].Position = cp.Vector{X: 0, Y: 0}
			f, next, ok := body.springForce(2)
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(0))
			Expect(f.X).To(BeNumerically("~", 600, 1e-9))
		})

		It("skips coincident neighbours", func() {
			body := New(cp.Vector{}, 3, DefaultParams())
			body.points[1].Position = body.points[0].Position
			_, _, ok := body.springForce(0)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("pressure pass", func() {
		It("pushes each point outward with constant magnitude", func() {
			b.applyPressure()
			for i := 0; i < b.Len(); i++ {
				p := b.points[i]
				Expect(p.Force.Length()).To(BeNumerically("~", DefaultPressure, 1e-6))
				Expect(p.Force.Dot(p.Position.Sub(center))).To(BeNumerically(">", 0))
			}
		})
	})

	Describe("repulsion pass", func() {
		It("pushes close pairs apart", func() {
			body := New(cp.Vector{X: 500, Y: 500}, 4, DefaultParams())
			body.points[0].Position = cp.Vector{X: 100, Y: 100}
			body.points[2].Position = cp.Vector{X: 105, Y: 100}
			body.applyRepulsion()
			Expect(body.points[0].Force.X).To(BeNumerically("~", -10*DefaultStiffness, 1e-6))
			Expect(body.points[2].Force.X).To(BeNumerically("~", 10*DefaultStiffness, 1e-6))
		})

		It("ignores pairs beyond half the rest radius", func() {
			hexagon := New(center, 6, DefaultParams())
			hexagon.applyRepulsion()
			for i := 0; i < hexagon.Len(); i++ {
				Expect(hexagon.points[i].Force).To(Equal(cp.Vector{}))
			}
		})

		It("already acts between neighbours of a dense ring at rest", func() {
			b.applyRepulsion()
			Expect(b.points[0].Force.Length()).To(BeNumerically(">", 0))
		})
	})

	Describe("force smoothing", func() {
		It("low-passes the non-gravity force", func() {
			b.Update(frameDt, screen)
			first := b.Snapshot()
			for _, p := range first {
				Expect(p.PreviousForce.X).To(BeNumerically("~", p.Force.X*(1-ForceSmoothing), 1e-9))
				Expect(p.PreviousForce.Y).To(BeNumerically("~", p.Force.Y*(1-ForceSmoothing), 1e-9))
			}
			b.Update(frameDt, screen)
			for i, p := range b.Snapshot() {
				want := first[i].PreviousForce.Mult(ForceSmoothing).Add(p.Force.Mult(1 - ForceSmoothing))
				Expect(p.PreviousForce.X).To(BeNumerically("~", want.X, 1e-9))
				Expect(p.PreviousForce.Y).To(BeNumerically("~", want.Y, 1e-9))
			}
		})
	})

	Describe("drag", func() {
		It("grabs the first point in index order within rest radius", func() {
			p0 := b.Point(0).Position
			Expect(b.BeginDrag(p0)).To(BeTrue())
			idx, ok := b.Dragged()
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(0))
		})

		It("prefers a lower index over a nearer point", func() {
			target := b.Point(1).Position
			Expect(target.Distance(b.Point(0).Position)).To(BeNumerically("<", DefaultRestRadius))
			Expect(b.BeginDrag(target)).To(BeTrue())
			idx, _ := b.Dragged()
			Expect(idx).To(Equal(0))
		})

		It("misses when nothing is in reach", func() {
			Expect(b.BeginDrag(cp.Vector{X: 10, Y: 10})).To(BeFalse())
			_, ok := b.Dragged()
			Expect(ok).To(BeFalse())
		})

		It("ignores move events while idle", func() {
			before := b.Snapshot()
			b.SetDragTarget(cp.Vector{X: 1, Y: 1})
			Expect(b.Snapshot()).To(Equal(before))
		})

		It("freezes the dragged point at the last target", func() {
			Expect(b.BeginDrag(b.Point(5).Position)).To(BeTrue())
			idx, _ := b.Dragged()
			start := b.Point(idx).Position
			for frame := 0; frame < 20; frame++ {
				b.Update(frameDt, screen)
				p := b.Point(idx)
				Expect(p.Velocity).To(Equal(cp.Vector{}))
				Expect(p.Force).To(Equal(cp.Vector{}))
				Expect(p.Position).To(Equal(start))
			}

			target := cp.Vector{X: 400, Y: 200}
			for frame := 0; frame < 20; frame++ {
				b.SetDragTarget(target)
				b.Update(frameDt, screen)
				p := b.Point(idx)
				Expect(p.Velocity).To(Equal(cp.Vector{}))
				Expect(p.Force).To(Equal(cp.Vector{}))
				Expect(p.Position).To(Equal(target))
				target = target.Add(cp.Vector{X: 5, Y: 3})
			}
		})

		It("keeps dragging outside the viewport until release", func() {
			Expect(b.BeginDrag(b.Point(0).Position)).To(BeTrue())
			b.SetDragTarget(cp.Vector{X: -50, Y: 2000})
			b.Update(frameDt, screen)
			Expect(b.Point(0).Position).To(Equal(cp.Vector{X: -50, Y: 2000}))
			b.EndDrag()
			_, ok := b.Dragged()
			Expect(ok).To(BeFalse())
			b.Update(frameDt, screen)
			Expect(screen.Contains(b.Point(0).Position)).To(BeTrue())
		})

		It("lets the dragged point pull its neighbours", func() {
			Expect(b.BeginDrag(b.Point(0).Position)).To(BeTrue())
			b.SetDragTarget(cp.Vector{X: 1200, Y: 450})
			before := b.Point(1).Position.X
			for frame := 0; frame < 5; frame++ {
				b.Update(frameDt, screen)
			}
			Expect(b.Point(1).Position.X).To(BeNumerically(">", before))
		})
	})

	Describe("energy bleed-off", func() {
		It("loses kinetic energy window over window", func() {
			const window = 300
			var means []float64
			sum := 0.0
			for frame := 1; frame <= 6*window; frame++ {
				b.Update(frameDt, screen)
				sum += b.KineticEnergy()
				if frame%window == 0 {
					means = append(means, sum/window)
					sum = 0
				}
			}
			for i := 1; i < len(means); i++ {
				Expect(means[i]).To(BeNumerically("<", means[i-1]), "window %d", i)
			}
			Expect(means[len(means)-1]).To(BeNumerically("<", means[0]/50))
			Expect(b.IsValid()).To(BeTrue())
		})
	})

	Describe("falling onto the floor", func() {
		It("drops, lands and settles inside the viewport", func() {
			landed := -1
			var ys []float64
			for frame := 0; frame < 120; frame++ {
				b.Update(frameDt, screen)
				ys = append(ys, b.Centroid().Y)
				for i := 0; i < b.Len(); i++ {
					p := b.Point(i).Position
					Expect(p.X).To(BeNumerically(">=", 0))
					Expect(p.X).To(BeNumerically("<=", 1600))
					Expect(p.Y).To(BeNumerically(">=", 0))
					Expect(p.Y).To(BeNumerically("<=", 900))
					if landed < 0 && p.Y == 900 {
						landed = frame
					}
				}
			}

			Expect(landed).To(BeNumerically(">", 0))
			for i := 1; i <= landed; i++ {
				Expect(ys[i]).To(BeNumerically(">=", ys[i-1]))
			}
			Expect(ys[len(ys)-1]).To(BeNumerically(">", ys[0]))
			for _, y := range ys[landed:] {
				Expect(y).To(BeNumerically(">", 700))
			}

			lo, hi := math.Inf(1), math.Inf(-1)
			for _, y := range ys[len(ys)-30:] {
				lo, hi = math.Min(lo, y), math.Max(hi, y)
			}
			Expect(hi - lo).To(BeNumerically("<", 50))
		})
	})

	Describe("yanking a point into the corner", func() {
		It("pulls the ring after it without collapsing", func() {
			far1 := b.Point(1).Position.Length()
			far19 := b.Point(19).Position.Length()

			Expect(b.BeginDrag(b.Point(0).Position)).To(BeTrue())
			b.SetDragTarget(cp.Vector{})
			b.Update(frameDt, screen)
			b.EndDrag()

			near1, near19 := math.Inf(1), math.Inf(1)
			for frame := 0; frame < 10; frame++ {
				b.Update(frameDt, screen)
				Expect(b.IsValid()).To(BeTrue())
				Expect(b.Len()).To(Equal(20))
				Expect(minPairDistance(b)).To(BeNumerically(">", Epsilon))
				for i := 0; i < b.Len(); i++ {
					Expect(screen.Contains(b.Point(i).Position)).To(BeTrue())
				}
				near1 = math.Min(near1, b.Point(1).Position.Length())
				near19 = math.Min(near19, b.Point(19).Position.Length())
			}

			Expect(near1).To(BeNumerically("<", 0.75*far1))
			Expect(near19).To(BeNumerically("<", 0.75*far19))
		})

		It("hands the neighbours' pull back to the released point", func() {
			Expect(b.BeginDrag(b.Point(0).Position)).To(BeTrue())
			b.SetDragTarget(cp.Vector{})
			b.Update(frameDt, screen)
			Expect(b.Point(0).Force).To(Equal(cp.Vector{}))
			b.EndDrag()
			pull := b.Point(0).Force
			Expect(pull.X).To(BeNumerically(">", 0))
			Expect(pull.Y).To(BeNumerically(">", 0))
		})
	})

	Describe("reset", func() {
		It("restores the initial ring and drops the drag", func() {
			initial := b.Snapshot()
			b.BeginDrag(b.Point(0).Position)
			for frame := 0; frame < 10; frame++ {
				b.Update(frameDt, screen)
			}
			b.Reset()
			Expect(b.Snapshot()).To(Equal(initial))
			_, ok := b.Dragged()
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Params", func() {
	It("defaults to the tuned constants", func() {
		p := DefaultParams()
		Expect(p.Stiffness).To(Equal(1000.0))
		Expect(p.Damping).To(Equal(0.1))
		Expect(p.Pressure).To(Equal(5000.0))
		Expect(p.Gravity).To(Equal(980.0))
		Expect(p.MaxDt).To(Equal(0.02))
		Expect(p.Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(mutate func(*Params)) {
			p := DefaultParams()
			mutate(&p)
			Expect(p.Validate()).To(MatchError(ErrParameterBounds))
		},
		Entry("zero radius", func(p *Params) { p.RestRadius = 0 }),
		Entry("negative stiffness", func(p *Params) { p.Stiffness = -1 }),
		Entry("negative damping", func(p *Params) { p.Damping = -0.1 }),
		Entry("zero mass", func(p *Params) { p.Mass = 0 }),
		Entry("zero max dt", func(p *Params) { p.MaxDt = 0 }),
	)

	It("sets parameters by name", func() {
		p := DefaultParams()
		Expect(p.SetParam("stiffness", 42)).To(Succeed())
		Expect(p.GetParams()["stiffness"]).To(Equal(42.0))
		Expect(p.SetParam("nope", 1)).NotTo(Succeed())
	})
})
