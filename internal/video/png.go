package video

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/paperplane/internal/config"
)

// PNGSequence writes every frame as frame_00000.png, frame_00001.png, ...
type PNGSequence struct {
	Dir string

	enc   png.Encoder
	index int
}

func NewPNGSequence(dir string) *PNGSequence {
	return &PNGSequence{Dir: dir, enc: png.Encoder{CompressionLevel: png.BestSpeed}}
}

func (s *PNGSequence) Open(ctx context.Context, params config.RenderParams) error {
	s.index = 0
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create frames dir: %w", err)
	}
	return nil
}

func (s *PNGSequence) WriteFrame(img *image.RGBA) error {
	path := filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.png", s.index))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	s.index++
	return f.Close()
}

func (s *PNGSequence) Close() error {
	return nil
}

// Count is the number of frames written since Open.
func (s *PNGSequence) Count() int {
	return s.index
}
