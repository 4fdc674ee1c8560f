// Package audio provides pull-based audio pipelines: readers, transforms
// chained in front of them, and a broadcaster to share one source.
package audio

import (
	"github.com/pion/mediacheck/pkg/wave"
)

type Reader interface {
	// Read reads data from the source. The caller is expected to call release when it's done
	// consuming the data. release might be nil.
	Read() (chunk wave.Audio, release func(), err error)
}

type ReaderFunc func() (chunk wave.Audio, release func(), err error)

func (rf ReaderFunc) Read() (wave.Audio, func(), error) {
	return rf()
}

// TransformFunc produces a new Reader that will produces a transformed audio
type TransformFunc func(r Reader) Reader

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(r Reader) Reader {
		for _, transform := range transforms {
			if transform == nil {
				continue
			}

			r = transform(r)
		}

		return r
	}
}
