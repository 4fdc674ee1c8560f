package wave

import "math"

// Float32Sample is a sample in [-1, 1].
type Float32Sample float32

func (s Float32Sample) Int() int64 {
	return int64(float64(s) * fullScale)
}

// Float32Interleaved is multi-channel float audio with the channels of a
// sample stored next to each other.
type Float32Interleaved struct {
	Data []float32
	Size ChunkInfo
}

func (a *Float32Interleaved) ChunkInfo() ChunkInfo {
	return a.Size
}

func (a *Float32Interleaved) SampleFormat() SampleFormat {
	return Float32SampleFormat
}

func (a *Float32Interleaved) At(i, ch int) Sample {
	return Float32Sample(a.Data[i*a.Size.Channels+ch])
}

func (a *Float32Interleaved) Set(i, ch int, s Sample) {
	a.Data[i*a.Size.Channels+ch] = float32(Float32SampleFormat.Convert(s).(Float32Sample))
}

func (a *Float32Interleaved) SetFloat32(i, ch int, s Float32Sample) {
	a.Data[i*a.Size.Channels+ch] = float32(s)
}

// MeanAbs returns the mean magnitude of channel ch, 0 for an empty chunk.
func (a *Float32Interleaved) MeanAbs(ch int) float64 {
	if a.Size.Len == 0 || ch < 0 || ch >= a.Size.Channels {
		return 0
	}
	var total float64
	for i := ch; i < a.Size.Len*a.Size.Channels; i += a.Size.Channels {
		total += math.Abs(float64(a.Data[i]))
	}
	return total / float64(a.Size.Len)
}

// SubAudio returns nSamples samples starting at offsetSamples. The result
// shares a's buffer.
func (a *Float32Interleaved) SubAudio(offsetSamples, nSamples int) *Float32Interleaved {
	ret := *a
	ch := a.Size.Channels
	ret.Data = a.Data[offsetSamples*ch : (offsetSamples+nSamples)*ch]
	ret.Size.Len = nSamples
	return &ret
}

func NewFloat32Interleaved(size ChunkInfo) *Float32Interleaved {
	return &Float32Interleaved{
		Data: make([]float32, size.Channels*size.Len),
		Size: size,
	}
}
