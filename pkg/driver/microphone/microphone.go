//go:build !nomicrophone

// Package microphone provides the miniaudio backed microphone driver.
package microphone

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/driver/availability"
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/prop"
	"github.com/pion/mediacheck/pkg/wave"
)

const sampleRate = 48000

var logger = logging.NewLogger("mediacheck/driver/microphone")

var errUnsupportedFormat = errors.New("the provided audio format is not supported")

var (
	ctxOnce sync.Once
	ctx     *malgo.AllocatedContext
	ctxErr  error
)

func malgoContext() (*malgo.AllocatedContext, error) {
	ctxOnce.Do(func() {
		ctx, ctxErr = malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
			logger.Debugf("%v", message)
		})
	})
	return ctx, ctxErr
}

// Register registers every capture device known to miniaudio to m. The
// system default device gets a higher priority.
func Register(m *driver.Manager) error {
	c, err := malgoContext()
	if err != nil {
		return fmt.Errorf("%w: %v", availability.ErrUnimplemented, err)
	}

	devices, err := c.Devices(malgo.Capture)
	if err != nil {
		return err
	}

	for _, device := range devices {
		priority := driver.PriorityNormal
		if device.IsDefault > 0 {
			priority = driver.PriorityHigh
		}
		err := m.Register(newMicrophone(device), driver.Info{
			Label:      device.Name(),
			DeviceType: driver.Microphone,
			Priority:   priority,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type microphone struct {
	malgo.DeviceInfo
	chunkChan chan []byte
	done      chan struct{}
}

func newMicrophone(info malgo.DeviceInfo) *microphone {
	return &microphone{
		DeviceInfo: info,
	}
}

func (m *microphone) Open() error {
	m.chunkChan = make(chan []byte, 4)
	m.done = make(chan struct{})
	return nil
}

func (m *microphone) Close() error {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	return nil
}

func (m *microphone) AudioRecord(inputProp prop.Media) (audio.Reader, error) {
	decoder, err := wave.NewDecoder(&wave.RawFormat{
		SampleSize: inputProp.SampleSize,
		IsFloat:    inputProp.IsFloat,
	})
	if err != nil {
		return nil, err
	}

	c, err := malgoContext()
	if err != nil {
		return nil, err
	}

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.PerformanceProfile = malgo.LowLatency
	config.Capture.DeviceID = m.ID.Pointer()
	config.Capture.Channels = uint32(inputProp.ChannelCount)
	config.SampleRate = uint32(inputProp.SampleRate)
	switch {
	case inputProp.SampleSize == 4 && inputProp.IsFloat:
		config.Capture.Format = malgo.FormatF32
	case inputProp.SampleSize == 2 && !inputProp.IsFloat:
		config.Capture.Format = malgo.FormatS16
	default:
		return nil, errUnsupportedFormat
	}

	chunkChan, done := m.chunkChan, m.done
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			// miniaudio reuses input after the callback returns
			chunk := append([]byte(nil), input...)
			select {
			case chunkChan <- chunk:
			case <-done:
			default:
				logger.Debug("dropping a chunk, the reader is too slow")
			}
		},
	}

	device, err := malgo.InitDevice(c.Context, config, callbacks)
	if err != nil {
		return nil, err
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, err
	}

	var reader audio.Reader = audio.ReaderFunc(func() (wave.Audio, func(), error) {
		var chunk []byte
		select {
		case chunk = <-chunkChan:
		case <-done:
			device.Stop()
			device.Uninit()
			return nil, func() {}, io.EOF
		}

		decodedChunk, err := decoder.Decode(binary.NativeEndian, chunk, inputProp.ChannelCount)
		if err != nil {
			return nil, func() {}, err
		}
		switch decodedChunk := decodedChunk.(type) {
		case *wave.Float32Interleaved:
			decodedChunk.Size.SamplingRate = inputProp.SampleRate
		case *wave.Int16Interleaved:
			decodedChunk.Size.SamplingRate = inputProp.SampleRate
		}
		return decodedChunk, func() {}, nil
	})

	// The device delivers whatever period size it likes; re-chunk it to the latency we advertised.
	reader = audio.NewBuffer(int(inputProp.Latency.Seconds() * float64(inputProp.SampleRate)))(reader)
	return reader, nil
}

// Properties lists the formats miniaudio can convert to for this device.
func (m *microphone) Properties() []prop.Media {
	var supportedProps []prop.Media
	logger.Debug("Querying properties")

	for ch := 1; ch <= 2; ch++ {
		for _, format := range []struct {
			size    int
			isFloat bool
		}{{4, true}, {2, false}} {
			supportedProps = append(supportedProps, prop.Media{
				Audio: prop.Audio{
					ChannelCount:  ch,
					SampleRate:    sampleRate,
					SampleSize:    format.size,
					IsFloat:       format.isFloat,
					IsBigEndian:   binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x1234,
					IsInterleaved: true,
					Latency:       time.Millisecond * 20,
				},
			})
		}
	}
	return supportedProps
}
