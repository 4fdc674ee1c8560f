package audio

import (
	"github.com/pion/mediacheck/pkg/io"
	"github.com/pion/mediacheck/pkg/wave"
)

// Broadcaster is a specialized audio broadcaster.
type Broadcaster struct {
	ioBroadcaster *io.Broadcaster[wave.Audio]
}

type BroadcasterConfig struct {
	Core *io.BroadcasterConfig
}

// NewBroadcaster creates a new broadcaster. Source is expected to drop chunks
// when any of the readers is slower than the source.
func NewBroadcaster(source Reader, config *BroadcasterConfig) *Broadcaster {
	var coreConfig *io.BroadcasterConfig

	if config != nil {
		coreConfig = config.Core
	}

	broadcaster := io.NewBroadcaster[wave.Audio](source, coreConfig)

	return &Broadcaster{broadcaster}
}

// NewReader creates a new reader. Each reader will retrieve the same data from the source.
// When copyChunk is set, each reader gets its own copy of every chunk, so it may modify
// the samples freely.
func (broadcaster *Broadcaster) NewReader(copyChunk bool) Reader {
	copyFn := func(src wave.Audio) wave.Audio { return src }

	if copyChunk {
		copyFn = Clone
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

// Clone returns a deep copy of the chunk. Unknown chunk types are returned as is.
func Clone(src wave.Audio) wave.Audio {
	switch src := src.(type) {
	case *wave.Float32Interleaved:
		dst := *src
		dst.Data = append([]float32(nil), src.Data...)
		return &dst
	case *wave.Int16Interleaved:
		dst := *src
		dst.Data = append([]int16(nil), src.Data...)
		return &dst
	}
	return src
}
