package director

import (
	"fmt"
	"math"
	"time"

	"github.com/ivlev/paperplane/internal/paper"
	"github.com/ivlev/paperplane/internal/transform"
)

const (
	// Lead is the delay between Start and the reference instant.
	Lead = time.Second

	FoldDuration = time.Second
	HideDuration = 100 * time.Millisecond

	perspective = 0.0006
)

// Schedule builds the folding timeline for p with all offsets relative to
// ref. Translation distances are taken from p's current layout.
func Schedule(p *paper.Paper, ref time.Time) *Timeline {
	return &Timeline{
		Version:   "1.0",
		Reference: ref,
		Width:     p.Width(),
		Height:    p.Height(),
		Steps:     choreography(p),
	}
}

func at(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// choreography is the literal fold sequence. Each panel's fold starts as
// the previous one completes; the schedule never waits on completion.
func choreography(p *paper.Paper) []Step {
	d := FoldDuration
	farRight := p.Panel(paper.FarRight).Frame
	farLeft := p.Panel(paper.FarLeft).Frame
	h := p.Height()

	return []Step{
		DiagonalFold(paper.TopLeft, -1, at(0), d),
		Hide(paper.TopLeft, at(0)+d),

		DiagonalFold(paper.TopRight, 1, at(1), d),
		Hide(paper.TopRight, at(1)+d),

		// far-left stays visible: it is the wing
		HorizontalFold(paper.FarLeft, 1, at(2), d),
		HorizontalFold(paper.NearLeft, 1, at(2), d),
		Hide(paper.NearLeft, at(2)+d),

		HorizontalFold(paper.FarRight, -1, at(3), d),

		Rotate(paper.NearRight, transform.Vec3{Y: -1}, math.Pi*0.5, at(4), d),
		MoveX(paper.FarRight, -farRight.W, at(4), d),
		MoveX(paper.FarLeft, -farLeft.W, at(4), d),

		MoveY(paper.FarRight, -h, at(5), d),
		MoveY(paper.FarLeft, -h, at(5), d),
	}
}

// Rotate turns a panel by angle about axis. The perspective term takes the
// sign of the axis y component.
func Rotate(id paper.PanelID, axis transform.Vec3, angle float64, offset, duration time.Duration) Step {
	m34 := perspective
	if axis.Y <= 0 {
		m34 = -perspective
	}
	return Step{
		Panel:       id,
		Property:    Transform,
		Key:         fmt.Sprintf("transform-%g-%g-%g", axis.X, axis.Y, axis.Z),
		Axis:        axis,
		Angle:       angle,
		Perspective: m34,
		Offset:      offset,
		Duration:    duration,
	}
}

// DiagonalFold folds a panel over the diagonal axis (x, 1, 0).
func DiagonalFold(id paper.PanelID, x float64, offset, duration time.Duration) Step {
	return Rotate(id, transform.Vec3{X: x, Y: 1}, math.Pi, offset, duration)
}

// HorizontalFold folds a panel over the vertical axis (0, y, 0).
func HorizontalFold(id paper.PanelID, y float64, offset, duration time.Duration) Step {
	return Rotate(id, transform.Vec3{Y: y}, math.Pi, offset, duration)
}

func MoveX(id paper.PanelID, by float64, offset, duration time.Duration) Step {
	return Step{
		Panel:    id,
		Property: PositionX,
		Key:      fmt.Sprintf("move.x-%g", by),
		By:       by,
		Offset:   offset,
		Duration: duration,
	}
}

func MoveY(id paper.PanelID, by float64, offset, duration time.Duration) Step {
	return Step{
		Panel:    id,
		Property: PositionY,
		Key:      fmt.Sprintf("move.y-%g", by),
		By:       by,
		Offset:   offset,
		Duration: duration,
	}
}

// Hide fades a panel out quickly at offset.
func Hide(id paper.PanelID, offset time.Duration) Step {
	return Step{
		Panel:    id,
		Property: Opacity,
		Key:      fmt.Sprintf("hide-%g", offset.Seconds()),
		To:       0,
		Offset:   offset,
		Duration: HideDuration,
	}
}
