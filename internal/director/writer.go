package director

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/paperplane/internal/transform"
)

// Validate checks that t can be played back on a paper of its recorded size.
func (t *Timeline) Validate() error {
	if t.Reference.IsZero() {
		return errors.New("schedule has no reference instant")
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("schedule paper size %gx%g", t.Width, t.Height)
	}
	if len(t.Steps) == 0 {
		return errors.New("schedule has no steps")
	}

	for i, s := range t.Steps {
		switch {
		case !s.Panel.Valid():
			return fmt.Errorf("step %d: unknown panel %d", i, s.Panel)
		case s.Offset < 0:
			return fmt.Errorf("step %d (%s): negative offset %s", i, s.Key, s.Offset)
		case s.Duration <= 0:
			return fmt.Errorf("step %d (%s): duration %s", i, s.Key, s.Duration)
		case s.Key == "":
			return fmt.Errorf("step %d: empty key", i)
		case s.Property == Transform && s.Axis == (transform.Vec3{}):
			return fmt.Errorf("step %d (%s): zero rotation axis", i, s.Key)
		}
	}
	return nil
}

// Rebase returns a copy of t that starts at ref. Offsets are kept.
func (t *Timeline) Rebase(ref time.Time) *Timeline {
	c := *t
	c.Reference = ref
	c.Steps = append([]Step(nil), t.Steps...)
	return &c
}

// WriteTimeline writes a timeline to a YAML file, stamped with the
// reference instant and the total length.
func WriteTimeline(tl *Timeline, path string) error {
	if err := tl.Validate(); err != nil {
		return err
	}

	var doc yaml.Node
	if err := doc.Encode(tl); err != nil {
		return err
	}
	doc.HeadComment = fmt.Sprintf("paperplane schedule %gx%g\nreference %s, ends at +%s",
		tl.Width, tl.Height, tl.Reference.Format(time.RFC3339Nano), tl.End())

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTimeline reads and validates a timeline from a YAML file.
func ReadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, err
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &tl, nil
}
