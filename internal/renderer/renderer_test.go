package renderer

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/ivlev/paperplane/internal/director"
	"github.com/ivlev/paperplane/internal/paper"
)

var ref = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func sec(s float64) time.Time {
	return ref.Add(time.Duration(s * float64(time.Second)))
}

func stateOf(states []LayerState, id paper.PanelID) LayerState {
	for _, st := range states {
		if st.Panel.ID == id {
			return st
		}
	}
	panic("no state for " + id.String())
}

func TestEvaluateBeforeStart(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)

	states := Evaluate(p, tl, sec(-0.5), nil)
	if len(states) != 6 {
		t.Fatalf("Expected 6 layer states, got %d", len(states))
	}
	for i, st := range states {
		if st.Panel.ID != paper.DrawOrder[i] {
			t.Errorf("State %d is %s, expected %s", i, st.Panel.ID, paper.DrawOrder[i])
		}
		if !st.Transform.IsIdentity() || st.Opacity != 1 || st.Offset != (gg.Point{}) {
			t.Errorf("%s should be at model values before the reference instant", st.Panel.ID)
		}
	}
}

func TestEvaluateOpacity(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)

	tests := []struct {
		at   float64
		id   paper.PanelID
		want float64
	}{
		{0.5, paper.TopLeft, 1},
		{1.05, paper.TopLeft, 0.5},
		{1.2, paper.TopLeft, 0},
		{1.5, paper.TopRight, 1},
		{2.2, paper.TopRight, 0},
		{3.2, paper.NearLeft, 0},
		{10, paper.FarLeft, 1},
		{10, paper.FarRight, 1},
	}

	for _, tt := range tests {
		got := stateOf(Evaluate(p, tl, sec(tt.at), nil), tt.id).Opacity
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("R+%.2fs %s: opacity %f, expected %f", tt.at, tt.id, got, tt.want)
		}
	}
}

func TestEvaluateHoldsFinalValues(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)

	mid := stateOf(Evaluate(p, tl, sec(4.5), nil), paper.FarLeft)
	if math.Abs(mid.Offset.X+50) > 1e-9 || mid.Offset.Y != 0 {
		t.Errorf("Mid-slide offset %v, expected (-50,0)", mid.Offset)
	}

	for _, at := range []float64{6, 60, 3600} {
		st := stateOf(Evaluate(p, tl, sec(at), nil), paper.FarLeft)
		if st.Offset != gg.Pt(-100, -500) {
			t.Errorf("R+%.0fs: far-left offset %v, expected (-100,-500)", at, st.Offset)
		}
		if st.Transform != tl.ForPanel(paper.FarLeft)[0].Target() {
			t.Errorf("R+%.0fs: far-left fold reverted", at)
		}
	}
}

func TestProjectDiagonalFold(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)

	st := stateOf(Evaluate(p, tl, sec(1), nil), paper.TopLeft)
	pts, ok := Project(st)
	if !ok {
		t.Fatal("Projection failed")
	}

	// folded across its own hypotenuse
	want := []gg.Point{{X: 200, Y: 200}, {X: 200, Y: 0}, {X: 0, Y: 200}, {X: 200, Y: 200}}
	for i := range want {
		if pts[i].Distance(want[i]) > 1e-6 {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], pts[i])
		}
	}
}

func TestProjectHorizontalFold(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)

	states := Evaluate(p, tl, sec(3), nil)

	// far-left hinges on the centre seam and lands on the far-right strip
	pts, _ := Project(stateOf(states, paper.FarLeft))
	b := pts[0]
	if b.Distance(gg.Pt(400, 200)) > 1e-6 {
		t.Errorf("Far-left short-side vertex at %v, expected (400,200)", b)
	}

	// near-left folds onto near-right
	pts, _ = Project(stateOf(states, paper.NearLeft))
	for _, q := range pts {
		if q.X < 200-1e-6 || q.X > 300+1e-6 {
			t.Errorf("Near-left point %v outside the near-right strip", q)
		}
	}
}

func TestProjectModelState(t *testing.T) {
	p := paper.New(400, 500)

	for _, st := range Evaluate(p, nil, ref, nil) {
		pts, ok := Project(st)
		if !ok {
			t.Fatalf("%s: projection failed", st.Panel.ID)
		}
		f := st.Panel.Frame
		for i, v := range st.Panel.Outline.Points {
			want := v.Add(gg.Pt(f.X, f.Y))
			if pts[i].Distance(want) > 1e-9 {
				t.Errorf("%s point %d: expected %v, got %v", st.Panel.ID, i, want, pts[i])
			}
		}
	}
}

func TestActiveReplacesSameKey(t *testing.T) {
	steps := []director.Step{
		director.MoveX(paper.FarLeft, -10, 0, time.Second),
		director.MoveY(paper.FarLeft, -10, 0, time.Second),
		director.MoveX(paper.FarLeft, -10, 2*time.Second, time.Second),
	}

	got := active(steps)
	if len(got) != 2 {
		t.Fatalf("Expected 2 active steps, got %d", len(got))
	}
	if got[1].Offset != 2*time.Second {
		t.Errorf("Expected the later move.x to win, got offset %v", got[1].Offset)
	}
}

func TestEasing(t *testing.T) {
	for _, f := range []Easing{Linear, EaseInOutCubic} {
		if f(0) != 0 || math.Abs(f(1)-1) > 1e-12 {
			t.Errorf("Easing must map 0->0 and 1->1")
		}
	}
	if EaseInOutCubic(0.5) != 0.5 {
		t.Errorf("Expected ease-in-out midpoint 0.5, got %f", EaseInOutCubic(0.5))
	}
	if EasingByName("bogus")(0.3) != 0.3 {
		t.Error("Unknown easing should fall back to linear")
	}
}

func TestRenderPixels(t *testing.T) {
	p := paper.New(400, 500)
	tl := director.Schedule(p, ref)
	r := New(Options{Fill: gg.RGB(1, 0, 0), Background: gg.White})

	tests := []struct {
		name string
		at   float64
		pt   image.Point
		red  bool
	}{
		{"flat corner", -1, image.Pt(50, 50), true},
		{"flat strip", -1, image.Pt(50, 300), true},
		{"flat near-right", -1, image.Pt(250, 400), true},
		{"gone left", 60, image.Pt(100, 250), false},
		{"gone right", 60, image.Pt(300, 250), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Render(Evaluate(p, tl, sec(tt.at), nil), 400, 500, p.Width(), p.Height())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			c := img.RGBAAt(tt.pt.X, tt.pt.Y)
			isRed := c.R > 200 && c.G < 60 && c.B < 60
			if isRed != tt.red {
				t.Errorf("Pixel %v = %v, expected red=%v", tt.pt, c, tt.red)
			}
		})
	}
}

func TestRenderSupersampledSize(t *testing.T) {
	p := paper.New(400, 500)
	r := New(Options{Fill: gg.RGB(1, 0, 0), Background: gg.White, Supersample: 2})

	img, err := r.Render(Evaluate(p, nil, ref, nil), 200, 250, p.Width(), p.Height())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 200, 250) {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(100, 125); c.R < 200 {
		t.Errorf("Expected red centre, got %v", c)
	}
}
