// Package audiotest provides dummy audio driver for testing.
package audiotest

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/prop"
	"github.com/pion/mediacheck/pkg/wave"
)

const defaultAmplitude = 0.25

// Register registers a 480 Hz sine microphone to m.
func Register(m *driver.Manager, label string, opts ...Option) error {
	return m.Register(New(opts...), driver.Info{Label: label, DeviceType: driver.Microphone})
}

// Option configures the dummy microphone.
type Option func(*dummy)

// WithAmplitude sets the peak amplitude of the sine wave. Zero produces silence.
func WithAmplitude(a float32) Option {
	return func(d *dummy) {
		d.amplitude = a
	}
}

// WithRealtime makes reads sleep for the chunk duration, like a real device.
func WithRealtime(realtime bool) Option {
	return func(d *dummy) {
		d.realtime = realtime
	}
}

type dummy struct {
	amplitude float32
	realtime  bool
	closed    <-chan struct{}
	cancel    func()
}

// New creates a dummy microphone adapter.
func New(opts ...Option) driver.Adapter {
	d := &dummy{amplitude: defaultAmplitude, realtime: true}
	for _, o := range opts {
		o(d)
	}
	return d
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

func (d *dummy) AudioRecord(p prop.Media) (audio.Reader, error) {
	var sin [100]float32
	for i := range sin {
		sin[i] = float32(math.Sin(2*math.Pi*float64(i)/100)) * d.amplitude // 480 Hz
	}

	if p.Latency == 0 {
		p.Latency = 20 * time.Millisecond
	}
	if p.SampleRate == 0 {
		p.SampleRate = 48000
	}
	if p.ChannelCount == 0 {
		p.ChannelCount = 1
	}
	nSample := int(uint64(p.SampleRate) * uint64(p.Latency) / uint64(time.Second))

	nextReadTime := time.Now()
	var phase int

	closed := d.closed
	realtime := d.realtime

	reader := audio.ReaderFunc(func() (wave.Audio, func(), error) {
		select {
		case <-closed:
			return nil, func() {}, io.EOF
		default:
		}

		if realtime {
			time.Sleep(time.Until(nextReadTime))
			nextReadTime = nextReadTime.Add(p.Latency)
		}

		a := wave.NewFloat32Interleaved(
			wave.ChunkInfo{
				Channels:     p.ChannelCount,
				Len:          nSample,
				SamplingRate: p.SampleRate,
			},
		)

		for i := 0; i < nSample; i++ {
			phase++
			if phase >= 100 {
				phase = 0
			}
			for ch := 0; ch < p.ChannelCount; ch++ {
				a.SetFloat32(i, ch, wave.Float32Sample(sin[phase]))
			}
		}
		return a, func() {}, nil
	})
	return reader, nil
}

func (d *dummy) Properties() []prop.Media {
	return []prop.Media{
		{
			Audio: prop.Audio{
				SampleRate:    48000,
				Latency:       time.Millisecond * 20,
				ChannelCount:  1,
				SampleSize:    4,
				IsFloat:       true,
				IsInterleaved: true,
			},
		},
		{
			Audio: prop.Audio{
				SampleRate:    48000,
				Latency:       time.Millisecond * 20,
				ChannelCount:  2,
				SampleSize:    4,
				IsFloat:       true,
				IsInterleaved: true,
			},
		},
	}
}
