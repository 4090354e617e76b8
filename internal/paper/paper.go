package paper

import (
	"math"

	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/paperplane/internal/geometry"
)

type PanelID int

const (
	TopLeft PanelID = iota
	TopRight
	FarLeft
	NearLeft
	FarRight
	NearRight
	numPanels
)

var panelNames = [numPanels]string{
	TopLeft:   "top-left",
	TopRight:  "top-right",
	FarLeft:   "far-left",
	NearLeft:  "near-left",
	FarRight:  "far-right",
	NearRight: "near-right",
}

func (id PanelID) String() string {
	if !id.Valid() {
		return "unknown"
	}
	return panelNames[id]
}

func (id PanelID) Valid() bool {
	return id >= 0 && id < numPanels
}

// ParsePanelID is the inverse of PanelID.String.
func ParsePanelID(s string) (PanelID, bool) {
	for i, n := range panelNames {
		if n == s {
			return PanelID(i), true
		}
	}
	return 0, false
}

func (id PanelID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

func (id *PanelID) UnmarshalYAML(value *yaml.Node) error {
	v, ok := ParsePanelID(value.Value)
	if !ok {
		return &yaml.TypeError{Errors: []string{"unknown panel " + value.Value}}
	}
	*id = v
	return nil
}

// DrawOrder is the sublayer order of the surface, back to front.
var DrawOrder = []PanelID{FarLeft, NearLeft, NearRight, FarRight, TopLeft, TopRight}

// Panel is one shaped region of the sheet.
type Panel struct {
	ID PanelID
	// Frame in surface coordinates.
	Frame geometry.Rect
	// Anchor in unit coordinates of the frame; may lie outside [0,1].
	Anchor  gg.Point
	Outline geometry.Outline
}

// Position is the anchor point expressed in surface coordinates.
func (p *Panel) Position() gg.Point {
	return gg.Pt(p.Frame.X+p.Anchor.X*p.Frame.W, p.Frame.Y+p.Anchor.Y*p.Frame.H)
}

// AnchorOffset is the anchor point in the panel's own coordinates.
func (p *Panel) AnchorOffset() gg.Point {
	return gg.Pt(p.Anchor.X*p.Frame.W, p.Anchor.Y*p.Frame.H)
}

// Paper is the folding sheet: six panels laid out over a width x height
// surface.
type Paper struct {
	width, height float64
	panels        [numPanels]*Panel
}

// New builds a paper with its anchors assigned and runs the first layout.
func New(width, height float64) *Paper {
	p := &Paper{}
	for i := range p.panels {
		p.panels[i] = &Panel{ID: PanelID(i), Anchor: gg.Pt(0.5, 0.5)}
	}
	p.setupAnchors()
	p.Resize(width, height)
	return p
}

// UnmarshalYAML exists only so a Paper can sit inside decoded documents;
// a sheet is never restored from a file.
func (p *Paper) UnmarshalYAML(*yaml.Node) error {
	panic("paper: UnmarshalYAML has not been implemented")
}

// setupAnchors makes the right half hinge on its left edges and the left
// half hinge on the centre seam.
func (p *Paper) setupAnchors() {
	p.panels[FarRight].Anchor = gg.Pt(0, 0.5)
	p.panels[NearRight].Anchor = gg.Pt(0, 0.5)

	p.panels[FarLeft].Anchor = gg.Pt(2, 0.5)
	p.panels[NearLeft].Anchor = gg.Pt(1, 0.5)
}

func (p *Paper) Width() float64  { return p.width }
func (p *Paper) Height() float64 { return p.height }

// ShortSide is the trapezoid short side b shared by all four strips.
func (p *Paper) ShortSide() float64 {
	return math.Round(p.width * 0.25)
}

func (p *Paper) Panel(id PanelID) *Panel {
	return p.panels[id]
}

// Panels returns the panels in draw order.
func (p *Paper) Panels() []*Panel {
	out := make([]*Panel, 0, len(DrawOrder))
	for _, id := range DrawOrder {
		out = append(out, p.panels[id])
	}
	return out
}

// Resize lays the panels out over a new surface size and rebuilds every
// outline. Anchors are kept.
func (p *Paper) Resize(width, height float64) {
	p.width, p.height = width, height

	b := p.ShortSide()
	x1 := b
	x2 := math.Round(width * 0.5)
	x3 := math.Round(width * 0.75)

	p.panels[TopLeft].Frame = geometry.Rect{X: 0, Y: 0, W: x2, H: x2}
	// both triangles are x2 squares; for odd widths the top-right one
	// overhangs the right edge by a point
	p.panels[TopRight].Frame = geometry.Rect{X: x2, Y: 0, W: x2, H: x2}

	p.panels[FarLeft].Frame = geometry.Rect{X: 0, Y: b, W: x1, H: height - b}
	p.panels[NearLeft].Frame = geometry.Rect{X: x1, Y: 0, W: x2 - x1, H: height}
	p.panels[NearRight].Frame = geometry.Rect{X: x2, Y: 0, W: x3 - x2, H: height}
	p.panels[FarRight].Frame = geometry.Rect{X: x3, Y: b, W: width - x3, H: height - b}

	p.setupPaths()
}

func (p *Paper) setupPaths() {
	b := p.ShortSide()
	id := gg.Identity()

	tl, tr := p.panels[TopLeft], p.panels[TopRight]
	tl.Outline = geometry.TrianglePath(tl.Frame.Bounds(), id)
	tr.Outline = geometry.TrianglePath(tr.Frame.Bounds(), id).Mirror()

	for _, pid := range []PanelID{FarLeft, NearLeft} {
		pn := p.panels[pid]
		pn.Outline = geometry.TrapezoidPath(pn.Frame.Bounds(), b, id)
	}
	for _, pid := range []PanelID{FarRight, NearRight} {
		pn := p.panels[pid]
		pn.Outline = geometry.TrapezoidPath(pn.Frame.Bounds(), b, id).Mirror()
	}
}

// Snapshot returns a deep copy, safe to hand to concurrent renderers.
func (p *Paper) Snapshot() *Paper {
	c := &Paper{width: p.width, height: p.height}
	for i, pn := range p.panels {
		cp := *pn
		cp.Outline.Points = append([]gg.Point(nil), pn.Outline.Points...)
		c.panels[i] = &cp
	}
	return c
}
