package director

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/paperplane/internal/paper"
	"github.com/ivlev/paperplane/internal/transform"
)

// Property is the layer property a step animates.
type Property int

const (
	Transform Property = iota
	PositionX
	PositionY
	Opacity
)

var propertyNames = map[Property]string{
	Transform: "transform",
	PositionX: "position.x",
	PositionY: "position.y",
	Opacity:   "opacity",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return "unknown"
}

func (p Property) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *Property) UnmarshalYAML(value *yaml.Node) error {
	for k, v := range propertyNames {
		if v == value.Value {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown property %q", value.Value)
}

// Step is one animation registered on a panel. Transform steps rotate from
// the identity to Angle about Axis, position steps move by By, opacity steps
// go to To. Every step holds its final value once it completes.
type Step struct {
	Panel    paper.PanelID `yaml:"panel"`
	Property Property      `yaml:"property"`
	// Key names the animation on its panel; a later step with the same key
	// replaces the earlier one.
	Key string `yaml:"key"`

	Axis        transform.Vec3 `yaml:"axis,omitempty"`
	Angle       float64        `yaml:"angle,omitempty"`
	Perspective float64        `yaml:"perspective,omitempty"`
	By          float64        `yaml:"by,omitempty"`
	To          float64        `yaml:"to,omitempty"`

	// Offset from the timeline reference instant.
	Offset   time.Duration `yaml:"offset"`
	Duration time.Duration `yaml:"duration"`
}

// End is the offset at which the step reaches its final value.
func (s Step) End() time.Duration {
	return s.Offset + s.Duration
}

// Target is the fully applied transform of a Transform step.
func (s Step) Target() transform.Mat4 {
	return s.TransformAt(1)
}

// TransformAt is the transform of a Transform step at progress f in [0,1].
// The angle and the perspective term advance together.
func (s Step) TransformAt(f float64) transform.Mat4 {
	return transform.Rotation(s.Angle*f, s.Axis).WithPerspective(s.Perspective * f)
}

// Timeline is a fixed, fire-and-forget schedule. All steps are absolute
// offsets from Reference.
type Timeline struct {
	Version   string    `yaml:"version"`
	Reference time.Time `yaml:"reference"`
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	Steps     []Step    `yaml:"steps"`
}

// Begin is the absolute start time of s.
func (t *Timeline) Begin(s Step) time.Time {
	return t.Reference.Add(s.Offset)
}

// Motions returns the rotation and translation steps, leaving out fades.
func (t *Timeline) Motions() []Step {
	var out []Step
	for _, s := range t.Steps {
		if s.Property != Opacity {
			out = append(out, s)
		}
	}
	return out
}

// StartTimes returns the absolute start time of each of steps.
func (t *Timeline) StartTimes(steps []Step) []time.Time {
	out := make([]time.Time, len(steps))
	for i, s := range steps {
		out[i] = t.Begin(s)
	}
	return out
}

// End is the offset at which the last step completes.
func (t *Timeline) End() time.Duration {
	var end time.Duration
	for _, s := range t.Steps {
		if e := s.End(); e > end {
			end = e
		}
	}
	return end
}

// ForPanel returns the steps registered on id, in schedule order.
func (t *Timeline) ForPanel(id paper.PanelID) []Step {
	var out []Step
	for _, s := range t.Steps {
		if s.Panel == id {
			out = append(out, s)
		}
	}
	return out
}
