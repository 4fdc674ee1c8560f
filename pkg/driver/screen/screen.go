// Package screen provides a display capture driver.
package screen

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/frame"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

const defaultFrameRate = 10

type screen struct {
	displayIndex int
	doneCh       chan struct{}
}

// Register registers every active display to m. The first display is
// preferred.
func Register(m *driver.Manager) error {
	activeDisplays := screenshot.NumActiveDisplays()
	for i := 0; i < activeDisplays; i++ {
		priority := driver.PriorityNormal
		if i == 0 {
			priority = driver.PriorityHigh
		}

		err := m.Register(newScreen(i), driver.Info{
			Label:      fmt.Sprint(i),
			DeviceType: driver.Screen,
			Priority:   priority,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func newScreen(displayIndex int) *screen {
	return &screen{
		displayIndex: displayIndex,
	}
}

func (s *screen) Open() error {
	s.doneCh = make(chan struct{})
	return nil
}

func (s *screen) Close() error {
	close(s.doneCh)
	return nil
}

func (s *screen) VideoRecord(selectedProp prop.Media) (video.Reader, error) {
	frameRate := selectedProp.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	ticker := time.NewTicker(time.Duration(float32(time.Second) / frameRate))
	doneCh := s.doneCh

	var r video.Reader = video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-doneCh:
			ticker.Stop()
			return nil, func() {}, io.EOF
		case <-ticker.C:
		}

		img, err := screenshot.CaptureDisplay(s.displayIndex)
		if err != nil {
			return nil, func() {}, err
		}
		return img, func() {}, nil
	})

	bounds := screenshot.GetDisplayBounds(s.displayIndex)
	if (selectedProp.Width > 0 && selectedProp.Width != bounds.Dx()) ||
		(selectedProp.Height > 0 && selectedProp.Height != bounds.Dy()) {
		r = video.Scale(selectedProp.Width, selectedProp.Height, video.ScalerApproxBiLinear)(r)
	}
	return r, nil
}

func (s *screen) Properties() []prop.Media {
	resolution := screenshot.GetDisplayBounds(s.displayIndex)
	supportedProp := prop.Media{
		Video: prop.Video{
			Width:       resolution.Dx(),
			Height:      resolution.Dy(),
			FrameRate:   defaultFrameRate,
			FrameFormat: frame.FormatRGBA,
		},
	}
	return []prop.Media{supportedProp}
}
