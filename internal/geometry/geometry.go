package geometry

import (
	"math"

	"github.com/gogpu/gg"
)

// Rect is an axis-aligned rectangle in surface coordinates (y grows down).
type Rect struct {
	X, Y float64
	W, H float64
}

// Bounds returns the rectangle moved to the origin, the local coordinate
// space a panel's outline is built in.
func (r Rect) Bounds() Rect {
	return Rect{W: r.W, H: r.H}
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Outline is a closed polygon: the last point repeats the first.
type Outline struct {
	Points []gg.Point
}

// TrianglePath builds the right triangle with the right angle at the origin
// corner of rect: (0,0) -> (w,0) -> (0,h) -> (0,0).
func TrianglePath(rect Rect, m gg.Matrix) Outline {
	return build(m,
		gg.Pt(0, 0),
		gg.Pt(rect.W, 0),
		gg.Pt(0, rect.H),
		gg.Pt(0, 0),
	)
}

// TrapezoidPath builds the strip outline whose left edge starts at y=b:
// (0,b) -> (0,h) -> (w,h) -> (w,0) -> (0,b).
// Adjacent panels rely on this exact vertex order for their seams.
func TrapezoidPath(rect Rect, b float64, m gg.Matrix) Outline {
	return build(m,
		gg.Pt(0, b),
		gg.Pt(0, rect.H),
		gg.Pt(rect.W, rect.H),
		gg.Pt(rect.W, 0),
		gg.Pt(0, b),
	)
}

func build(m gg.Matrix, pts ...gg.Point) Outline {
	if !m.IsIdentity() {
		for i, p := range pts {
			pts[i] = m.TransformPoint(p)
		}
	}
	return Outline{Points: pts}
}

// Mirror reflects the outline across a vertical axis so that the result
// occupies the same bounding box as o. o is left untouched.
func (o Outline) Mirror() Outline {
	b := o.Bounds()
	// x' = -x + (minX + maxX); for outlines anchored at x=0 this is the
	// bounding box width.
	return o.Transform(gg.Translate(b.X+b.MaxX(), 0).Multiply(gg.Scale(-1, 1)))
}

// Transform returns a copy of o with every point mapped through m.
func (o Outline) Transform(m gg.Matrix) Outline {
	pts := make([]gg.Point, len(o.Points))
	for i, p := range o.Points {
		pts[i] = m.TransformPoint(p)
	}
	return Outline{Points: pts}
}

// Bounds returns the bounding box of the outline. An empty outline has a
// zero Rect.
func (o Outline) Bounds() Rect {
	if len(o.Points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Closed reports whether the outline ends where it started.
func (o Outline) Closed() bool {
	n := len(o.Points)
	return n > 1 && o.Points[0] == o.Points[n-1]
}

// Vertices returns the polygon corners without the closing point.
func (o Outline) Vertices() []gg.Point {
	if o.Closed() {
		return o.Points[:len(o.Points)-1]
	}
	return o.Points
}

// Area is the unsigned shoelace area of the polygon.
func (o Outline) Area() float64 {
	v := o.Vertices()
	sum := 0.0
	for i := range v {
		j := (i + 1) % len(v)
		sum += v[i].Cross(v[j])
	}
	return math.Abs(sum) / 2
}
