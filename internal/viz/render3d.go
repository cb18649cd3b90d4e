package viz

import (
	"math"
	"sort"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/optics"
)

// Camera projects world points with a fixed orbit around the scene center.
type Camera struct {
	Center     dynamo.Vec3
	Distance   float64
	RotX, RotY float64
	Zoom       float64
	Near       float64
}

// NewCamera frames the region from the source to the screen, looking down at
// it from above and to the side.
func NewCamera(cfg dynamo.SimulationConfig, sc dynamo.Scale) *Camera {
	zMin := sc.SourceZ - sc.SpawnDepth
	zMax := sc.ScreenZ(cfg)
	extent := math.Max(zMax-zMin, sc.ScreenWidth)
	return &Camera{
		Center:   dynamo.Vec3{Z: (zMin + zMax) / 2},
		Distance: 50,
		RotX:     0.45,
		RotY:     -0.9,
		Zoom:     2.4 / extent,
		Near:     0.1,
	}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.001, c.Zoom/1.2) }

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	p = p.Sub(c.Center)
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project converts a world point to sub-pixel coordinates on a sw x sh
// surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	if !p.IsValid() {
		return 0, 0, 0, false
	}
	rot := c.rotate(p).Scale(c.Zoom)
	dist := c.Distance * c.Zoom
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	pScale := float64(min(sw, sh)) / 2
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End dynamo.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                 { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p dynamo.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                   { w.Edges = w.Edges[:0] }

// AddRect outlines the rectangle x in [x0, x1], y in [y0, y1] on plane z.
func (w *Wireframe) AddRect(x0, x1, y0, y1, z float64) {
	a := dynamo.Vec3{X: x0, Y: y0, Z: z}
	b := dynamo.Vec3{X: x1, Y: y0, Z: z}
	c := dynamo.Vec3{X: x1, Y: y1, Z: z}
	d := dynamo.Vec3{X: x0, Y: y1, Z: z}
	w.AddEdge(a, b)
	w.AddEdge(b, c)
	w.AddEdge(c, d)
	w.AddEdge(d, a)
}

// SceneWireframe outlines the barrier pieces and the screen.
func SceneWireframe(cfg dynamo.SimulationConfig, sc dynamo.Scale) *Wireframe {
	w := NewWireframe()
	b := optics.Layout(cfg, sc)
	hh := b.Height / 2
	w.AddRect(b.Left.MinX, b.Left.MaxX, -hh, hh, b.Z)
	w.AddRect(b.Right.MinX, b.Right.MaxX, -hh, hh, b.Z)
	if b.CenterVisible {
		w.AddRect(b.Center.MinX, b.Center.MaxX, -hh, hh, b.Z)
	}

	half, sh := sc.HalfWidth(), sc.ScreenHeight/2
	w.AddRect(-half, half, -sh, sh, sc.ScreenZ(cfg))
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.Pixels()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
