package audio

import (
	"errors"

	"github.com/pion/mediacheck/pkg/wave"
)

var errUnsupported = errors.New("unsupported audio format")

// NewBuffer creates audio transform to buffer signal to have exact nSamples samples.
// Chunks with a different channel count or sample type restart the buffer.
func NewBuffer(nSamples int) TransformFunc {
	return func(r Reader) Reader {
		var inBuff wave.Audio

		return ReaderFunc(func() (wave.Audio, func(), error) {
			for inBuff == nil || inBuff.ChunkInfo().Len < nSamples {
				buff, release, err := r.Read()
				if err != nil {
					return nil, func() {}, err
				}

				switch b := buff.(type) {
				case *wave.Float32Interleaved:
					ib, ok := inBuff.(*wave.Float32Interleaved)
					if !ok || ib.Size.Channels != b.Size.Channels {
						ib = &wave.Float32Interleaved{
							Data: make([]float32, 0, nSamples*b.Size.Channels),
							Size: wave.ChunkInfo{
								SamplingRate: b.Size.SamplingRate,
								Channels:     b.Size.Channels,
							},
						}
						inBuff = ib
					}
					ib.Data = append(ib.Data, b.Data...)
					ib.Size.Len += b.Size.Len

				case *wave.Int16Interleaved:
					ib, ok := inBuff.(*wave.Int16Interleaved)
					if !ok || ib.Size.Channels != b.Size.Channels {
						ib = &wave.Int16Interleaved{
							Data: make([]int16, 0, nSamples*b.Size.Channels),
							Size: wave.ChunkInfo{
								SamplingRate: b.Size.SamplingRate,
								Channels:     b.Size.Channels,
							},
						}
						inBuff = ib
					}
					ib.Data = append(ib.Data, b.Data...)
					ib.Size.Len += b.Size.Len

				default:
					if release != nil {
						release()
					}
					return nil, func() {}, errUnsupported
				}

				if release != nil {
					release()
				}
			}

			switch ib := inBuff.(type) {
			case *wave.Int16Interleaved:
				n := nSamples * ib.Size.Channels
				out := &wave.Int16Interleaved{
					Data: make([]int16, n),
					Size: ib.Size,
				}
				out.Size.Len = nSamples
				copy(out.Data, ib.Data)
				ib.Data = ib.Data[n:]
				ib.Size.Len -= nSamples
				return out, func() {}, nil

			case *wave.Float32Interleaved:
				n := nSamples * ib.Size.Channels
				out := &wave.Float32Interleaved{
					Data: make([]float32, n),
					Size: ib.Size,
				}
				out.Size.Len = nSamples
				copy(out.Data, ib.Data)
				ib.Data = ib.Data[n:]
				ib.Size.Len -= nSamples
				return out, func() {}, nil
			}
			return nil, func() {}, errUnsupported
		})
	}
}
