package engine

import (
	"image"
	"log"
	"time"

	"github.com/gogpu/gg"

	"github.com/ivlev/paperplane/internal/config"
	"github.com/ivlev/paperplane/internal/director"
	"github.com/ivlev/paperplane/internal/paper"
	"github.com/ivlev/paperplane/internal/renderer"
)

// Clock supplies the monotonic instant all schedule offsets hang off.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now, which carries a monotonic reading.
var SystemClock Clock = systemClock{}

// Surface owns the paper, its one-shot schedule and the renderer.
type Surface struct {
	clock    Clock
	paper    *paper.Paper
	timeline *director.Timeline
	renderer *renderer.Renderer
	ease     renderer.Easing

	script  *director.Timeline
	onStart func(*director.Timeline)
}

func NewSurface(cfg *config.Config, clock Clock) *Surface {
	if clock == nil {
		clock = SystemClock
	}
	return &Surface{
		clock: clock,
		paper: paper.New(cfg.PaperWidth, cfg.PaperHeight),
		renderer: renderer.New(renderer.Options{
			Fill:        gg.Hex(cfg.FillColor),
			Background:  gg.Hex(cfg.BackgroundColor),
			Supersample: cfg.Supersample,
		}),
		ease: renderer.EasingByName(cfg.Easing),
	}
}

// Start schedules the fold sequence to begin one second from now. It runs
// once; later calls return the existing timeline.
func (s *Surface) Start() *director.Timeline {
	if s.timeline != nil {
		log.Printf("[!] Surface already started at %s", s.timeline.Reference.Format(time.StampMilli))
		return s.timeline
	}

	ref := s.clock.Now().Add(director.Lead)
	if s.script != nil {
		s.timeline = s.script.Rebase(ref)
	} else {
		s.timeline = director.Schedule(s.paper, ref)
	}
	if s.onStart != nil {
		s.onStart(s.timeline)
	}
	return s.timeline
}

// Play makes Start run tl instead of the built-in sequence. tl is rebased
// onto the start instant; its move distances stay as recorded.
func (s *Surface) Play(tl *director.Timeline) {
	if s.timeline != nil {
		log.Printf("[!] Surface already started, schedule ignored")
		return
	}
	s.script = tl
}

// OnStart registers fn to receive the timeline when Start creates it.
func (s *Surface) OnStart(fn func(*director.Timeline)) {
	s.onStart = fn
}

// Timeline is nil until Start.
func (s *Surface) Timeline() *director.Timeline {
	return s.timeline
}

func (s *Surface) Paper() *paper.Paper {
	return s.paper
}

// Resize relays out the panels. Scheduled steps are left alone.
func (s *Surface) Resize(width, height float64) {
	if width == s.paper.Width() && height == s.paper.Height() {
		return
	}
	s.paper.Resize(width, height)
}

// Frame renders the surface as it appears at now into dst.
func (s *Surface) Frame(dst *image.RGBA, now time.Time) error {
	states := renderer.Evaluate(s.paper, s.timeline, now, s.ease)
	return s.renderer.RenderInto(dst, states, s.paper.Width(), s.paper.Height())
}

// Duration is the span from Start until the last step completes.
func (s *Surface) Duration() time.Duration {
	if s.timeline == nil {
		return 0
	}
	return director.Lead + s.timeline.End()
}
