package director

import (
	"math"
	"testing"
	"time"

	"github.com/ivlev/paperplane/internal/paper"
	"github.com/ivlev/paperplane/internal/transform"
)

var ref = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestScheduleMotionOffsets(t *testing.T) {
	tl := Schedule(paper.New(400, 500), ref)

	motions := tl.Motions()
	if len(motions) != 10 {
		t.Fatalf("Expected 10 motion steps, got %d", len(motions))
	}

	wantSec := []float64{0, 1, 2, 2, 3, 4, 4, 4, 5, 5}
	for i, start := range tl.StartTimes(motions) {
		want := ref.Add(time.Duration(wantSec[i] * float64(time.Second)))
		if !start.Equal(want) {
			t.Errorf("Motion %d (%s %s): starts at R+%v, expected R+%v",
				i, motions[i].Panel, motions[i].Property, start.Sub(ref), want.Sub(ref))
		}
		if motions[i].Duration != FoldDuration {
			t.Errorf("Motion %d: duration %v, expected %v", i, motions[i].Duration, FoldDuration)
		}
	}

	if tl.End() != 6*time.Second {
		t.Errorf("Expected timeline to end at R+6s, got R+%v", tl.End())
	}
}

func TestScheduleTable(t *testing.T) {
	tl := Schedule(paper.New(400, 500), ref)

	tests := []struct {
		panel    paper.PanelID
		property Property
		offset   time.Duration
		axis     transform.Vec3
		angle    float64
		by       float64
	}{
		{paper.TopLeft, Transform, 0, transform.Vec3{X: -1, Y: 1}, math.Pi, 0},
		{paper.TopLeft, Opacity, time.Second, transform.Vec3{}, 0, 0},
		{paper.TopRight, Transform, time.Second, transform.Vec3{X: 1, Y: 1}, math.Pi, 0},
		{paper.TopRight, Opacity, 2 * time.Second, transform.Vec3{}, 0, 0},
		{paper.FarLeft, Transform, 2 * time.Second, transform.Vec3{Y: 1}, math.Pi, 0},
		{paper.NearLeft, Transform, 2 * time.Second, transform.Vec3{Y: 1}, math.Pi, 0},
		{paper.NearLeft, Opacity, 3 * time.Second, transform.Vec3{}, 0, 0},
		{paper.FarRight, Transform, 3 * time.Second, transform.Vec3{Y: -1}, math.Pi, 0},
		{paper.NearRight, Transform, 4 * time.Second, transform.Vec3{Y: -1}, math.Pi / 2, 0},
		{paper.FarRight, PositionX, 4 * time.Second, transform.Vec3{}, 0, -100},
		{paper.FarLeft, PositionX, 4 * time.Second, transform.Vec3{}, 0, -100},
		{paper.FarRight, PositionY, 5 * time.Second, transform.Vec3{}, 0, -500},
		{paper.FarLeft, PositionY, 5 * time.Second, transform.Vec3{}, 0, -500},
	}

	if len(tl.Steps) != len(tests) {
		t.Fatalf("Expected %d steps, got %d", len(tests), len(tl.Steps))
	}

	for i, tt := range tests {
		s := tl.Steps[i]
		if s.Panel != tt.panel || s.Property != tt.property || s.Offset != tt.offset {
			t.Errorf("Step %d: got %s %s at %v, expected %s %s at %v",
				i, s.Panel, s.Property, s.Offset, tt.panel, tt.property, tt.offset)
		}
		if s.Axis != tt.axis || s.Angle != tt.angle || s.By != tt.by {
			t.Errorf("Step %d: got axis=%v angle=%f by=%f", i, s.Axis, s.Angle, s.By)
		}
	}
}

func TestFarPanelsNeverFade(t *testing.T) {
	tl := Schedule(paper.New(400, 500), ref)

	for _, id := range []paper.PanelID{paper.FarLeft, paper.FarRight, paper.NearRight} {
		for _, s := range tl.ForPanel(id) {
			if s.Property == Opacity {
				t.Errorf("%s should stay visible, found fade at %v", id, s.Offset)
			}
		}
	}
}

func TestKeysAreUniquePerPanel(t *testing.T) {
	// square sheet: width-derived and height-derived distances can coincide
	for _, size := range [][2]float64{{400, 500}, {400, 400}, {100, 100}} {
		tl := Schedule(paper.New(size[0], size[1]), ref)

		for _, id := range paper.DrawOrder {
			seen := map[string]bool{}
			for _, s := range tl.ForPanel(id) {
				if seen[s.Key] {
					t.Errorf("%vx%v: %s has duplicate key %q", size[0], size[1], id, s.Key)
				}
				seen[s.Key] = true
			}
		}
	}
}

func TestPerspectiveSign(t *testing.T) {
	tests := []struct {
		axis transform.Vec3
		want float64
	}{
		{transform.Vec3{X: -1, Y: 1}, 0.0006},
		{transform.Vec3{Y: 1}, 0.0006},
		{transform.Vec3{Y: -1}, -0.0006},
	}

	for _, tt := range tests {
		s := Rotate(paper.TopLeft, tt.axis, math.Pi, 0, time.Second)
		if s.Perspective != tt.want {
			t.Errorf("Axis %v: perspective %f, expected %f", tt.axis, s.Perspective, tt.want)
		}
		if s.Target().Perspective() != tt.want {
			t.Errorf("Axis %v: target M34 %f, expected %f", tt.axis, s.Target().Perspective(), tt.want)
		}
		if !s.TransformAt(0).IsIdentity() {
			t.Errorf("Axis %v: transform at progress 0 should be identity", tt.axis)
		}
	}
}

func TestScheduleUsesCurrentLayout(t *testing.T) {
	p := paper.New(400, 500)
	p.Resize(800, 1000)

	tl := Schedule(p, ref)
	for _, s := range tl.Steps {
		switch s.Property {
		case PositionX:
			if s.By != -200 {
				t.Errorf("%s: moveX by %f, expected -200", s.Panel, s.By)
			}
		case PositionY:
			if s.By != -1000 {
				t.Errorf("%s: moveY by %f, expected -1000", s.Panel, s.By)
			}
		}
	}
}
