// Package live presents the paper surface in a desktop window.
package live

import (
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ivlev/paperplane/internal/engine"
	"github.com/ivlev/paperplane/internal/system"
)

// Run opens a resizable window showing s and blocks until it closes. The
// fold sequence is started on the first tick, once the view is up.
func Run(s *engine.Surface, title string, zoom int) error {
	g := newGame(s, zoom)

	p := s.Paper()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(p.Width())*g.zoom, int(p.Height())*g.zoom)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type game struct {
	surface *engine.Surface
	zoom    int
	now     func() time.Time

	width, height int // logical screen size from the last Layout
	started       bool

	img   *image.RGBA
	fbImg *ebiten.Image
}

func newGame(s *engine.Surface, zoom int) *game {
	if zoom < 1 {
		zoom = 1
	}
	p := s.Paper()
	return &game{
		surface: s,
		zoom:    zoom,
		now:     time.Now,
		width:   int(p.Width()),
		height:  int(p.Height()),
	}
}

func (g *game) Update() error {
	g.surface.Resize(float64(g.width), float64(g.height))
	if !g.started {
		g.surface.Start()
		g.started = true
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.width <= 0 || g.height <= 0 {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != g.width || g.img.Bounds().Dy() != g.height {
		if g.img != nil {
			system.PutImage(g.img)
		}
		g.img = system.GetImage(image.Rect(0, 0, g.width, g.height))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(g.width, g.height)
	}

	if err := g.surface.Frame(g.img, g.now()); err != nil {
		log.Printf("[!] Ошибка кадра: %v", err)
		return
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout follows the window: every size change becomes a relayout of the
// paper on the next Update.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width = outsideWidth / g.zoom
	g.height = outsideHeight / g.zoom
	return g.width, g.height
}
