// Package wave implements a basic audio data library.
package wave

// Audio is a finite series of audio Sample values.
type Audio interface {
	SampleFormat() SampleFormat
	ChunkInfo() ChunkInfo
	At(i, ch int) Sample
}

// EditableAudio is an editable finite series of audio Sample values.
type EditableAudio interface {
	Audio
	Set(i, ch int, s Sample)
}

// ChunkInfo contains size of the audio chunk.
type ChunkInfo struct {
	Len          int
	Channels     int
	SamplingRate int
}

// SampleFormat can convert any Sample to one from its own sample format.
type SampleFormat interface {
	Convert(c Sample) Sample
}

// SampleFormatFunc returns a SampleFormat that invokes f to implement the conversion.
func SampleFormatFunc(f func(Sample) Sample) SampleFormat {
	return &sampleFormatFunc{f}
}

type sampleFormatFunc struct {
	f func(Sample) Sample
}

func (f *sampleFormatFunc) Convert(s Sample) Sample {
	return f.f(s)
}

// fullScale is the Int value of a full scale positive sample.
const fullScale = 0x80000000

// SampleFormats for the standard formats.
var (
	Int16SampleFormat = SampleFormatFunc(func(s Sample) Sample {
		if _, ok := s.(Int16Sample); ok {
			return s
		}
		v := s.Int() >> 16
		switch {
		case v > 0x7fff:
			v = 0x7fff
		case v < -0x8000:
			v = -0x8000
		}
		return Int16Sample(v)
	})
	Float32SampleFormat = SampleFormatFunc(func(s Sample) Sample {
		if _, ok := s.(Float32Sample); ok {
			return s
		}
		return Float32Sample(float64(s.Int()) / fullScale)
	})
)

// Sample can convert itself to 64-bits signed value.
type Sample interface {
	// Int returns the audio level value for the sample.
	// A full scale sample ranges within [-0x80000000, 0x80000000].
	Int() int64
}

// Float returns s as a float in [-1, 1] (full scale).
func Float(s Sample) float32 {
	return float32(Float32SampleFormat.Convert(s).(Float32Sample))
}
