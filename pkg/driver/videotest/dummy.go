// Package videotest provides dummy video drivers (camera and screen) for testing.
package videotest

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/frame"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

// RegisterCamera registers a color bar camera to m.
func RegisterCamera(m *driver.Manager, label string) error {
	return m.Register(New(), driver.Info{Label: label, DeviceType: driver.Camera})
}

// RegisterScreen registers a color bar display to m.
func RegisterScreen(m *driver.Manager, label string) error {
	return m.Register(New(), driver.Info{Label: label, DeviceType: driver.Screen})
}

type dummy struct {
	closed <-chan struct{}
	cancel func()
}

// New creates a dummy video adapter producing SMPTE-like color bars.
func New() driver.Adapter {
	return &dummy{}
}

func (d *dummy) Open() error {
	ctx, cancel := context.WithCancel(context.Background())
	d.closed = ctx.Done()
	d.cancel = cancel
	return nil
}

func (d *dummy) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}

func (d *dummy) VideoRecord(p prop.Media) (video.Reader, error) {
	if p.FrameRate == 0 {
		p.FrameRate = 30
	}
	if p.Width == 0 || p.Height == 0 {
		p.Width, p.Height = 640, 480
	}

	colors := [][3]byte{
		{235, 128, 128},
		{210, 16, 146},
		{170, 166, 16},
		{145, 54, 34},
		{107, 202, 222},
		{82, 90, 240},
		{41, 240, 110},
	}

	yy := make([]byte, p.Width*p.Height)
	cb := make([]byte, p.Width*p.Height/2)
	cr := make([]byte, p.Width*p.Height/2)
	for y := 0; y < p.Height; y++ {
		yi := p.Width * y
		ci := p.Width * y / 2
		for x := 0; x < p.Width; x++ {
			c := x * 7 / p.Width
			yy[yi+x] = uint8(uint16(colors[c][0]) * 75 / 100)
			cb[ci+x/2] = colors[c][1]
			cr[ci+x/2] = colors[c][2]
		}
	}

	interval := time.Duration(float32(time.Second) / p.FrameRate)
	nextReadTime := time.Now()
	closed := d.closed

	r := video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-closed:
			return nil, func() {}, io.EOF
		default:
		}

		time.Sleep(time.Until(nextReadTime))
		nextReadTime = nextReadTime.Add(interval)

		return &image.YCbCr{
			Y:              yy,
			YStride:        p.Width,
			Cb:             cb,
			Cr:             cr,
			CStride:        p.Width / 2,
			SubsampleRatio: image.YCbCrSubsampleRatio422,
			Rect:           image.Rect(0, 0, p.Width, p.Height),
		}, func() {}, nil
	})

	return r, nil
}

func (d *dummy) Properties() []prop.Media {
	return []prop.Media{
		{
			Video: prop.Video{
				Width:       640,
				Height:      480,
				FrameRate:   30,
				FrameFormat: frame.FormatYUYV,
			},
		},
		{
			Video: prop.Video{
				Width:       1280,
				Height:      720,
				FrameRate:   30,
				FrameFormat: frame.FormatYUYV,
			},
		},
	}
}
