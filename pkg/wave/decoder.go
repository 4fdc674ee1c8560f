package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var errUnsupportedFormat = errors.New("unsupported raw audio format")

// RawFormat describes interleaved PCM as delivered by capture devices.
type RawFormat struct {
	SampleSize int
	IsFloat    bool
}

func (f *RawFormat) String() string {
	dataTypeStr := "Int"
	if f.IsFloat {
		dataTypeStr = "Float"
	}
	return fmt.Sprintf("%s%dInterleaved", dataTypeStr, f.SampleSize*8)
}

// Decoder decodes raw chunk to Audio
type Decoder interface {
	// Decode decodes raw chunk in endian byte order
	Decode(endian binary.ByteOrder, chunk []byte, channels int) (Audio, error)
}

// DecoderFunc is a proxy type for Decoder
type DecoderFunc func(endian binary.ByteOrder, chunk []byte, channels int) (Audio, error)

func (f DecoderFunc) Decode(endian binary.ByteOrder, chunk []byte, channels int) (Audio, error) {
	return f(endian, chunk, channels)
}

// NewDecoder returns a decoder for f. Only 16-bit integer and 32-bit float
// interleaved samples are supported.
func NewDecoder(f *RawFormat) (Decoder, error) {
	switch {
	case f.SampleSize == 2 && !f.IsFloat:
		return DecoderFunc(decodeInt16Interleaved), nil
	case f.SampleSize == 4 && f.IsFloat:
		return DecoderFunc(decodeFloat32Interleaved), nil
	}
	return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, f)
}

func frameCount(chunk []byte, channels, sampleSize int) (int, error) {
	if channels <= 0 {
		return 0, fmt.Errorf("invalid channel count %d", channels)
	}
	frameSize := channels * sampleSize
	if len(chunk)%frameSize != 0 {
		return 0, fmt.Errorf("chunk length %d is not a multiple of the frame size %d", len(chunk), frameSize)
	}
	return len(chunk) / frameSize, nil
}

func decodeInt16Interleaved(endian binary.ByteOrder, chunk []byte, channels int) (Audio, error) {
	n, err := frameCount(chunk, channels, 2)
	if err != nil {
		return nil, err
	}

	a := NewInt16Interleaved(ChunkInfo{Len: n, Channels: channels})
	for i := range a.Data {
		a.Data[i] = int16(endian.Uint16(chunk[i*2:]))
	}
	return a, nil
}

func decodeFloat32Interleaved(endian binary.ByteOrder, chunk []byte, channels int) (Audio, error) {
	n, err := frameCount(chunk, channels, 4)
	if err != nil {
		return nil, err
	}

	a := NewFloat32Interleaved(ChunkInfo{Len: n, Channels: channels})
	for i := range a.Data {
		a.Data[i] = math.Float32frombits(endian.Uint32(chunk[i*4:]))
	}
	return a, nil
}
