package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
)

var (
	errEmptyFrame = errors.New("mjpeg: empty frame")
	errFrameSize  = errors.New("mjpeg: frame size does not match the negotiated size")
)

// decodeMJPEG decodes one motion JPEG frame. Cameras drop bytes under load,
// so a frame whose size differs from the negotiated one is rejected instead
// of being handed on.
func decodeMJPEG(frame []byte, width, height int) (image.Image, func(), error) {
	if len(frame) == 0 {
		return nil, func() {}, errEmptyFrame
	}

	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, func() {}, fmt.Errorf("mjpeg: %w", err)
	}

	if size := img.Bounds().Size(); width > 0 && height > 0 && (size.X != width || size.Y != height) {
		return nil, func() {}, fmt.Errorf("%w: got %dx%d, want %dx%d", errFrameSize, size.X, size.Y, width, height)
	}
	return img, func() {}, nil
}
