package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/paperplane/internal/config"
	"github.com/ivlev/paperplane/internal/director"
	"github.com/ivlev/paperplane/internal/system"
	"github.com/ivlev/paperplane/internal/video"
)

// epoch anchors offline frame times; any fixed instant works.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// Project renders the whole fold sequence offline, frame by frame.
type Project struct {
	Config  *config.Config
	Surface *Surface
	Encoder video.FrameEncoder
}

func NewProject(cfg *config.Config, enc video.FrameEncoder) *Project {
	return ReplayProject(cfg, enc, nil)
}

// ReplayProject renders tl instead of the built-in sequence. A nil tl means
// the built-in one.
func ReplayProject(cfg *config.Config, enc video.FrameEncoder, tl *director.Timeline) *Project {
	s := NewSurface(cfg, fixedClock(epoch))
	if tl != nil {
		s.Play(tl)
	}
	s.Start()
	return &Project{
		Config:  cfg,
		Surface: s,
		Encoder: enc,
	}
}

// FrameCount covers the lead-in, every step and the hold at the end.
func (p *Project) FrameCount() int {
	total := p.Surface.Duration().Seconds() + p.Config.Hold
	return int(math.Ceil(total * float64(p.Config.FPS)))
}

// FrameTime is the instant frame i shows.
func (p *Project) FrameTime(i int) time.Time {
	return epoch.Add(time.Duration(i) * time.Second / time.Duration(p.Config.FPS))
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	if err := ctx.Err(); err != nil {
		return err
	}

	frameCount := p.FrameCount()
	if frameCount <= 0 {
		return fmt.Errorf("nothing to render: %d frames", frameCount)
	}

	params := config.RenderParams{
		Width:      p.Config.Width,
		Height:     p.Config.Height,
		FPS:        p.Config.FPS,
		FrameCount: frameCount,
		Encoder:    p.Config.VideoEncoder,
		Quality:    p.Config.Quality,
	}

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	budget := system.FrameBudget(params.Width*params.Height*4, workers)

	fmt.Println("--- [PROJECT: PAPER PLANE] ---")
	fmt.Printf("[*] Лист: %.0fx%.0f | Кадров: %d\n", p.Surface.Paper().Width(), p.Surface.Paper().Height(), frameCount)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Потоки: %d | Буфер: %d кадров\n", params.Width, params.Height, params.FPS, workers, budget)
	fmt.Println("-----------------------------")

	if err := p.Encoder.Open(ctx, params); err != nil {
		return err
	}

	renderStart := time.Now()
	err := p.renderFrames(ctx, frameCount, workers, budget)
	renderTime := time.Since(renderStart)

	if cerr := p.Encoder.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if p.Config.ShowStats {
		totalTime := time.Since(startTime)
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Rendering + Encoding: %.2fs\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			p.Config.BuildVersion, totalTime.Seconds(), renderTime.Seconds(), float64(frameCount)/totalTime.Seconds(),
		)
		fmt.Print(report)

		ps := system.Stats()
		fmt.Printf("[*] Буферы кадров: %d выдано, %d выделено, %d повторно\n", ps.Gets, ps.Allocated, ps.Reused())

		logEntry := fmt.Sprintf("[%s] Build: %s | Frames: %d | Size: %dx%d | Total: %.2fs | FPS: %.2f\n",
			time.Now().Format("2006-01-02 15:04:05"),
			p.Config.BuildVersion,
			frameCount,
			params.Width, params.Height,
			totalTime.Seconds(),
			float64(frameCount)/totalTime.Seconds(),
		)

		if err := appendLog("benchmark.log", logEntry); err != nil {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	return nil
}

func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderFrames renders on up to workers goroutines and hands frames to the
// encoder in index order. At most budget frames are alive at once.
func (p *Project) renderFrames(ctx context.Context, frameCount, workers, budget int) error {
	rect := image.Rect(0, 0, p.Config.Width, p.Config.Height)

	slots := make([]chan *image.RGBA, frameCount)
	for i := range slots {
		slots[i] = make(chan *image.RGBA, 1)
	}
	tokens := make(chan struct{}, budget)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers + 1)

	g.Go(func() error {
		for i := range slots {
			select {
			case img := <-slots[i]:
				err := p.Encoder.WriteFrame(img)
				system.PutImage(img)
				<-tokens
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				if (i+1)%p.Config.FPS == 0 || i+1 == frameCount {
					fmt.Printf("[>] Ready: %d/%d\n", i+1, frameCount)
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

produce:
	for i := 0; i < frameCount; i++ {
		select {
		case tokens <- struct{}{}:
		case <-gctx.Done():
			break produce
		}

		i := i
		g.Go(func() error {
			img := system.GetImage(rect)
			if err := p.Surface.Frame(img, p.FrameTime(i)); err != nil {
				system.PutImage(img)
				return fmt.Errorf("render frame %d: %w", i, err)
			}
			slots[i] <- img
			return nil
		})
	}

	return g.Wait()
}
