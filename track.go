package mediacheck

import (
	"errors"
	"image"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
	"github.com/pion/mediacheck/pkg/wave"
	"github.com/pion/webrtc/v4"
)

var errInvalidDriverType = errors.New("driver is neither an audio recorder nor a video recorder")

// Track is a live capture track, see
// https://w3c.github.io/mediacapture-main/#mediastreamtrack
type Track interface {
	// ID is unique per track, even for two tracks of the same device.
	ID() string
	Kind() webrtc.RTPCodecType
	// Label is the human readable name of the capturing device.
	Label() string
	// Stop releases the device. Readers return io.EOF afterwards.
	Stop() error
	// OnEnded registers a handler called once when the track ends, either
	// because it was stopped (io.EOF) or because the device failed.
	OnEnded(handler func(error))
}

// AudioTrack is a Track carrying audio.
type AudioTrack interface {
	Track
	// NewReader creates a reader of the track. Every reader receives every
	// chunk; with copyChunk set, each reader gets its own copy.
	NewReader(copyChunk bool) audio.Reader
}

// VideoTrack is a Track carrying video.
type VideoTrack interface {
	Track
	// NewReader creates a reader of the track. Every reader receives every
	// frame; with copyFrame set, each reader gets its own copy.
	NewReader(copyFrame bool) video.Reader
}

type baseTrack struct {
	id      string
	label   string
	d       driver.Driver
	kind    webrtc.RTPCodecType
	stop    sync.Once
	stopErr error

	mu             sync.Mutex
	err            error
	onErrorHandler func(error)
}

func newBaseTrack(d driver.Driver, kind webrtc.RTPCodecType) *baseTrack {
	return &baseTrack{
		id:    uuid.NewString(),
		label: d.Info().Label,
		d:     d,
		kind:  kind,
	}
}

func (t *baseTrack) ID() string {
	return t.id
}

func (t *baseTrack) Kind() webrtc.RTPCodecType {
	return t.kind
}

func (t *baseTrack) Label() string {
	return t.label
}

// OnEnded sets an error handler. When a track has been created and started,
// if an error occurs, handler will get called with the error. The first
// error wins, the handler runs at most once.
func (t *baseTrack) OnEnded(handler func(error)) {
	t.mu.Lock()
	t.onErrorHandler = handler
	err := t.err
	t.mu.Unlock()

	if err != nil && handler != nil {
		// Already errored.
		go handler(err)
	}
}

// onError is a callback when an error occurs
func (t *baseTrack) onError(err error) {
	t.mu.Lock()
	if t.err != nil {
		t.mu.Unlock()
		return
	}
	t.err = err
	handler := t.onErrorHandler
	t.mu.Unlock()

	if handler != nil {
		go handler(err)
	}
}

func (t *baseTrack) Stop() error {
	t.stop.Do(func() {
		t.stopErr = t.d.Close()
		t.onError(io.EOF)
	})
	return t.stopErr
}

type audioTrack struct {
	*baseTrack
	*audio.Broadcaster
}

func newAudioTrack(d driver.Driver, constraints prop.Media, transform audio.TransformFunc) (*audioTrack, error) {
	recorder, ok := d.(driver.AudioRecorder)
	if !ok {
		return nil, errInvalidDriverType
	}

	if err := openDriver(d); err != nil {
		return nil, err
	}

	reader, err := recorder.AudioRecord(constraints)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	if transform != nil {
		reader = transform(reader)
	}

	base := newBaseTrack(d, webrtc.RTPCodecTypeAudio)
	wrapped := audio.ReaderFunc(func() (chunk wave.Audio, release func(), err error) {
		chunk, release, err = reader.Read()
		if err != nil {
			base.onError(err)
		}
		return
	})

	return &audioTrack{
		baseTrack:   base,
		Broadcaster: audio.NewBroadcaster(wrapped, nil),
	}, nil
}

type videoTrack struct {
	*baseTrack
	*video.Broadcaster
}

func newVideoTrack(d driver.Driver, constraints prop.Media, transform video.TransformFunc) (*videoTrack, error) {
	recorder, ok := d.(driver.VideoRecorder)
	if !ok {
		return nil, errInvalidDriverType
	}

	if err := openDriver(d); err != nil {
		return nil, err
	}

	reader, err := recorder.VideoRecord(constraints)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	if transform != nil {
		reader = transform(reader)
	}

	base := newBaseTrack(d, webrtc.RTPCodecTypeVideo)
	wrapped := video.ReaderFunc(func() (img image.Image, release func(), err error) {
		img, release, err = reader.Read()
		if err != nil {
			base.onError(err)
		}
		return
	})

	return &videoTrack{
		baseTrack:   base,
		Broadcaster: video.NewBroadcaster(wrapped, nil),
	}, nil
}

func newTrack(d driver.Driver, constraints prop.Media, o *mediaDevicesOptions) (Track, error) {
	switch d.(type) {
	case driver.AudioRecorder:
		return newAudioTrack(d, constraints, o.audioTransform)
	case driver.VideoRecorder:
		return newVideoTrack(d, constraints, o.videoTransform)
	}
	return nil, errInvalidDriverType
}

func openDriver(d driver.Driver) error {
	if d.Status() != driver.StateClosed {
		return nil
	}
	return d.Open()
}
