package renderer

import (
	"time"

	"github.com/gogpu/gg"

	"github.com/ivlev/paperplane/internal/director"
	"github.com/ivlev/paperplane/internal/paper"
	"github.com/ivlev/paperplane/internal/transform"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// LayerState is the presentation state of one panel at a moment in time
type LayerState struct {
	Panel     *paper.Panel
	Transform transform.Mat4
	Offset    gg.Point // accumulated position delta
	Opacity   float64
}

// Evaluate computes the presentation state of every panel of p at now, in
// draw order. A nil timeline leaves every panel at its model values.
func Evaluate(p *paper.Paper, tl *director.Timeline, now time.Time, ease Easing) []LayerState {
	if ease == nil {
		ease = Linear
	}

	states := make([]LayerState, 0, len(paper.DrawOrder))
	for _, pn := range p.Panels() {
		st := LayerState{
			Panel:     pn,
			Transform: transform.Identity(),
			Opacity:   1.0,
		}
		if tl != nil {
			for _, s := range active(tl.ForPanel(pn.ID)) {
				apply(&st, s, progress(tl, s, now, ease))
			}
		}
		states = append(states, st)
	}
	return states
}

// active drops steps whose key is reused later on the same panel.
func active(steps []director.Step) []director.Step {
	last := make(map[string]int, len(steps))
	for i, s := range steps {
		last[s.Key] = i
	}
	out := steps[:0:0]
	for i, s := range steps {
		if last[s.Key] == i {
			out = append(out, s)
		}
	}
	return out
}

// progress returns -1 before the step begins, otherwise eased progress,
// clamped to 1 once the step has completed.
func progress(tl *director.Timeline, s director.Step, now time.Time, ease Easing) float64 {
	elapsed := now.Sub(tl.Begin(s))
	if elapsed < 0 {
		return -1
	}
	if s.Duration <= 0 || elapsed >= s.Duration {
		return 1
	}
	return ease(float64(elapsed) / float64(s.Duration))
}

func apply(st *LayerState, s director.Step, f float64) {
	if f < 0 {
		return
	}
	switch s.Property {
	case director.Transform:
		st.Transform = s.TransformAt(f)
	case director.PositionX:
		st.Offset.X += lerp(0, s.By, f)
	case director.PositionY:
		st.Offset.Y += lerp(0, s.By, f)
	case director.Opacity:
		st.Opacity = lerp(1.0, s.To, f)
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Linear is the default pacing of every step.
func Linear(t float64) float64 {
	return t
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EasingByName resolves a config name; unknown names fall back to Linear.
func EasingByName(name string) Easing {
	switch name {
	case "ease-in-out":
		return EaseInOutCubic
	default:
		return Linear
	}
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
