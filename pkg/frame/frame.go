// Package frame decodes raw frames delivered by capture devices.
package frame

import (
	"fmt"
	"image"
)

type Decoder interface {
	Decode(frame []byte, width, height int) (image.Image, func(), error)
}

// DecoderFunc is a proxy type for Decoder
type DecoderFunc func(frame []byte, width, height int) (image.Image, func(), error)

func (f DecoderFunc) Decode(frame []byte, width, height int) (image.Image, func(), error) {
	return f(frame, width, height)
}

func NewDecoder(f Format) (Decoder, error) {
	switch f {
	case FormatI420:
		return DecoderFunc(decodeI420), nil
	case FormatYUY2:
		return DecoderFunc(decodeYUY2), nil
	case FormatMJPEG:
		return DecoderFunc(decodeMJPEG), nil
	}
	return nil, fmt.Errorf("%s is not supported", f)
}
