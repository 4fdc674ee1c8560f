package video

import (
	"image"
	"image/draw"

	"github.com/pion/mediacheck/pkg/io"
)

// Broadcaster is a specialized video broadcaster.
type Broadcaster struct {
	ioBroadcaster *io.Broadcaster[image.Image]
}

type BroadcasterConfig struct {
	Core *io.BroadcasterConfig
}

// NewBroadcaster creates a new broadcaster. Source is expected to drop frames
// when any of the readers is slower than the source.
func NewBroadcaster(source Reader, config *BroadcasterConfig) *Broadcaster {
	var coreConfig *io.BroadcasterConfig

	if config != nil {
		coreConfig = config.Core
	}

	return &Broadcaster{io.NewBroadcaster[image.Image](source, coreConfig)}
}

// NewReader creates a new reader. Each reader will retrieve the same data from the source.
// When copyFrame is set, each reader gets its own RGBA copy of every frame.
func (broadcaster *Broadcaster) NewReader(copyFrame bool) Reader {
	copyFn := func(src image.Image) image.Image { return src }

	if copyFrame {
		copyFn = func(src image.Image) image.Image {
			if src == nil {
				return nil
			}
			dst := image.NewRGBA(src.Bounds())
			draw.Draw(dst, dst.Rect, src, src.Bounds().Min, draw.Src)
			return dst
		}
	}

	return broadcaster.ioBroadcaster.NewReader(copyFn)
}

// ReplaceSource replaces the underlying source. This operation is thread safe.
func (broadcaster *Broadcaster) ReplaceSource(source Reader) error {
	return broadcaster.ioBroadcaster.ReplaceSource(source)
}

// Source retrieves the underlying source. This operation is thread safe.
func (broadcaster *Broadcaster) Source() Reader {
	return broadcaster.ioBroadcaster.Source()
}
