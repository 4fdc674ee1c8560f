// Package volume turns a live audio stream into a smoothed loudness level in
// [0, 1], suitable for driving a microphone meter in a UI.
//
// Every block of BlockSize samples (first channel only) goes through three
// steps:
//
//	level   = sqrt(mean(|sample|))
//	average = level                          if unset or level > average
//	          0.7*average + 0.3*level        otherwise
//	out     = clamp(log10(average)/1.5 + 1, 0, 1)
//
// The average rises instantly and decays slowly, which keeps the meter from
// flickering between words.
package volume

import (
	"math"

	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/wave"
)

// BlockSize is the number of samples per analysis block.
const BlockSize = 2048

const (
	decayKeep = 0.7
	decayTake = 0.3
	logRange  = 1.5
)

// BlockLevel returns the square root of the mean absolute amplitude of the
// first channel of a. An empty block has level 0.
func BlockLevel(a wave.Audio) float64 {
	n := a.ChunkInfo().Len
	if n == 0 {
		return 0
	}

	if f, ok := a.(*wave.Float32Interleaved); ok {
		return math.Sqrt(f.MeanAbs(0))
	}

	var total float64
	for i := 0; i < n; i++ {
		total += math.Abs(float64(wave.Float(a.At(i, 0))))
	}
	return math.Sqrt(total / float64(n))
}

// Envelope is an attack-fast, release-slow follower of block levels. The zero
// value is unset. It is not safe for concurrent use.
type Envelope struct {
	average float64
	set     bool
}

// Update feeds the next block level and returns the new average.
func (e *Envelope) Update(level float64) float64 {
	if !e.set || level > e.average {
		e.average = level
		e.set = true
	} else {
		e.average = decayKeep*e.average + decayTake*level
	}
	return e.average
}

// Value returns the current average and whether any level was fed yet.
func (e *Envelope) Value() (float64, bool) {
	return e.average, e.set
}

// LogLevel maps an average onto [0, 1] on a logarithmic scale covering
// 1.5 decades. Zero, negative and NaN averages map to 0.
func LogLevel(average float64) float64 {
	l := math.Log10(average)/logRange + 1
	switch {
	case math.IsNaN(l), l < 0:
		return 0
	case l > 1:
		return 1
	}
	return l
}

// Analyze returns a transform that reports one level per chunk read through
// it. Chunks are passed on untouched. Put it behind audio.NewBuffer(BlockSize)
// to analyse fixed size blocks.
func Analyze(onLevel func(float64)) audio.TransformFunc {
	return func(r audio.Reader) audio.Reader {
		var envelope Envelope
		return audio.ReaderFunc(func() (wave.Audio, func(), error) {
			chunk, release, err := r.Read()
			if err != nil {
				return nil, release, err
			}

			level := LogLevel(envelope.Update(BlockLevel(chunk)))
			if onLevel != nil {
				onLevel(level)
			}
			return chunk, release, nil
		})
	}
}
