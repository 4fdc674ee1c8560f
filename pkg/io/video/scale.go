package video

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Scaler represents scaling algorithm
type Scaler draw.Scaler

// List of scaling algorithms
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

var errInvalidSize = errors.New("scaling: width or height must be positive")

// Scale returns video scaling transform producing RGBA frames.
// Setting scaler=nil to use default scaler. (ScalerNearestNeighbor)
// A non-positive width or height keeps the aspect ratio of the incoming image.
func Scale(width, height int, scaler Scaler) TransformFunc {
	return func(r Reader) Reader {
		if scaler == nil {
			scaler = ScalerNearestNeighbor
		}

		var dst *image.RGBA
		return ReaderFunc(func() (image.Image, func(), error) {
			if width <= 0 && height <= 0 {
				return nil, func() {}, errInvalidSize
			}

			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			if release != nil {
				defer release()
			}

			rect := TargetRect(img.Bounds(), width, height)
			if dst == nil || dst.Rect != rect {
				dst = image.NewRGBA(rect)
			}
			scaler.Scale(dst, rect, img, img.Bounds(), draw.Src, nil)
			return dst, func() {}, nil
		})
	}
}

// TargetRect computes the destination rectangle for scaling src to width x height,
// filling in a non-positive dimension from the source aspect ratio.
func TargetRect(src image.Rectangle, width, height int) image.Rectangle {
	switch {
	case width <= 0 && src.Dy() > 0:
		width = src.Dx() * height / src.Dy()
	case height <= 0 && src.Dx() > 0:
		height = src.Dy() * width / src.Dx()
	}
	return image.Rect(0, 0, width, height)
}
