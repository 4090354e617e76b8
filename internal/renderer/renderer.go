package renderer

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/paperplane/internal/transform"
)

// Options controls how layer states become pixels.
type Options struct {
	Fill       gg.RGBA
	Background gg.RGBA
	// Supersample renders at this multiple of the target size and filters
	// down; 1 relies on gg's analytic anti-aliasing alone.
	Supersample int
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	return &Renderer{opts: opts}
}

// Project maps a panel outline into surface coordinates: each point is taken
// relative to the anchor, pushed through the layer transform, divided by w
// and placed at the layer position plus the animated offset. ok is false if
// any point lands behind the viewer.
func Project(st LayerState) (pts []gg.Point, ok bool) {
	pn := st.Panel
	anchor := pn.AnchorOffset()
	pos := pn.Position().Add(st.Offset)

	pts = make([]gg.Point, 0, len(pn.Outline.Points))
	for _, v := range pn.Outline.Points {
		q := v.Sub(anchor)
		r, w := st.Transform.Apply(transform.Vec3{X: q.X, Y: q.Y})
		if w <= 0 {
			return nil, false
		}
		pts = append(pts, gg.Pt(r.X+pos.X, r.Y+pos.Y))
	}
	return pts, true
}

// RenderInto draws states, laid out on a surfaceW x surfaceH sheet, into dst
// stretched over its bounds.
func (r *Renderer) RenderInto(dst *image.RGBA, states []LayerState, surfaceW, surfaceH float64) error {
	b := dst.Bounds()
	ss := r.opts.Supersample
	w, h := b.Dx()*ss, b.Dy()*ss
	if w == 0 || h == 0 {
		return nil
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(r.opts.Background)

	sx, sy := 1.0, 1.0
	if surfaceW > 0 && surfaceH > 0 {
		sx, sy = float64(w)/surfaceW, float64(h)/surfaceH
	}
	m := gg.Scale(sx, sy)

	fill := r.opts.Fill
	for _, st := range states {
		if st.Opacity <= 0 {
			continue
		}
		pts, ok := Project(st)
		if !ok || len(pts) < 3 {
			continue
		}

		dc.SetRGBA(fill.R, fill.G, fill.B, fill.A*st.Opacity)
		for i, p := range pts {
			p = m.TransformPoint(p)
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill %s: %w", st.Panel.ID, err)
		}
	}

	src := dc.Image()
	if ss == 1 {
		xdraw.Draw(dst, b, src, image.Point{}, xdraw.Src)
		return nil
	}
	xdraw.CatmullRom.Scale(dst, b, src, src.Bounds(), xdraw.Src, nil)
	return nil
}

// Render allocates a width x height image and draws states into it.
func (r *Renderer) Render(states []LayerState, width, height int, surfaceW, surfaceH float64) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := r.RenderInto(dst, states, surfaceW, surfaceH); err != nil {
		return nil, err
	}
	return dst, nil
}
