package prop

import (
	"testing"
	"time"

	"github.com/pion/mediacheck/pkg/frame"
)

func TestMerge(t *testing.T) {
	p := Media{
		DeviceID: "cam0",
		Video:    Video{Width: 640},
	}
	p.Merge(Media{
		Video: Video{Width: 1280, Height: 720, FrameFormat: frame.FormatYUYV},
		Audio: Audio{IsFloat: true},
	})

	expected := Media{
		DeviceID: "cam0",
		Video:    Video{Width: 1280, Height: 720, FrameFormat: frame.FormatYUYV},
		Audio:    Audio{IsFloat: true},
	}
	if p != expected {
		t.Errorf("expected %+v, got %+v", expected, p)
	}
}

func TestFitnessDistance(t *testing.T) {
	offered := Media{
		Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatYUYV},
		Audio: Audio{SampleRate: 48000, Latency: 20 * time.Millisecond},
	}

	cases := map[string]struct {
		ideal    Media
		expected float64
	}{
		"Unconstrained": {Media{}, 0},
		"Exact":         {Media{Video: Video{Width: 640, Height: 480}}, 0},
		"HalfWidth":     {Media{Video: Video{Width: 320}}, 0.5},
		"OtherFormat":   {Media{Video: Video{FrameFormat: frame.FormatMJPEG}}, 1},
		"SampleRate":    {Media{Audio: Audio{SampleRate: 24000}}, 0.5},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			if d := c.ideal.FitnessDistance(offered); d != c.expected {
				t.Errorf("expected %v, got %v", c.expected, d)
			}
		})
	}
}
