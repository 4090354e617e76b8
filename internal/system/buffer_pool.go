package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует кадровые буферы *image.RGBA одного размера,
// чтобы рендер длинной анимации не нагружал GC новыми кадрами.
// Кадры разного размера (окно меняли во время показа) живут в отдельных пулах.
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex

	gets      atomic.Int64
	allocated atomic.Int64
}

// PoolStats показывает, сколько кадров было выдано и сколько из них
// пришлось выделить заново.
type PoolStats struct {
	Gets      int64
	Allocated int64
}

// Reused is the number of frames served from the pool.
func (s PoolStats) Reused() int64 {
	return s.Gets - s.Allocated
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage возвращает кадр размера rect из общего пула.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает кадр в общий пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// Stats of the shared pool.
func Stats() PoolStats {
	return globalPool.Stats()
}

// Get returns a frame with bounds rect. Reused frames keep their old pixels;
// the renderer paints the background over every pixel.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	pool := p.poolFor(rect.Size())

	img := pool.Get().(*image.RGBA)
	img.Rect = rect
	return img
}

func (p *ImagePool) poolFor(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, exists = p.pools[size]; exists {
		return pool
	}
	pool = &sync.Pool{
		New: func() interface{} {
			p.allocated.Add(1)
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

// Put drops frames of a size the pool never handed out.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect.Size()]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

func (p *ImagePool) Stats() PoolStats {
	return PoolStats{Gets: p.gets.Load(), Allocated: p.allocated.Load()}
}
