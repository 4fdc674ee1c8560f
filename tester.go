package mediacheck

import (
	"context"
	"sync"

	plogging "github.com/pion/logging"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/pkg/volume"
)

// DefaultQuietVolume is the playback volume of the microphone echo, low
// enough to avoid feedback.
const DefaultQuietVolume = 0.2

// TesterState is the state of the video sink.
type TesterState int

// TesterState definitions.
const (
	StateIdle TesterState = iota
	StateCameraActive
	StateScreenActive
)

func (s TesterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCameraActive:
		return "camera"
	case StateScreenActive:
		return "screen"
	}
	return "unknown"
}

type testerOptions struct {
	container      Container
	selector       string
	resolve        ContainerResolver
	videoContainer Container
	levelSink      LevelSink
	onVolumeChange func(float64)
	quietVolume    float64
	log            plogging.LeveledLogger
}

// TesterOption configures a Tester.
type TesterOption func(*testerOptions)

// WithMediaElementContainer sets the container holding the sinks.
func WithMediaElementContainer(c Container) TesterOption {
	return func(o *testerOptions) {
		o.container = c
	}
}

// WithMediaElementSelector finds the sink container with resolve. It is
// used when no container is set directly.
func WithMediaElementSelector(selector string, resolve ContainerResolver) TesterOption {
	return func(o *testerOptions) {
		o.selector = selector
		o.resolve = resolve
	}
}

// WithVideoElementContainer renders video into a separate container.
func WithVideoElementContainer(c Container) TesterOption {
	return func(o *testerOptions) {
		o.videoContainer = c
	}
}

// WithVolumeMeterElement shows microphone levels on s.
func WithVolumeMeterElement(s LevelSink) TesterOption {
	return func(o *testerOptions) {
		o.levelSink = s
	}
}

// WithVolumeChange sets a function called with every microphone level, on
// the analysis goroutine. It must return quickly.
func WithVolumeChange(fn func(float64)) TesterOption {
	return func(o *testerOptions) {
		o.onVolumeChange = fn
	}
}

// WithQuietVolume overrides DefaultQuietVolume.
func WithQuietVolume(v float64) TesterOption {
	return func(o *testerOptions) {
		o.quietVolume = v
	}
}

// WithLogger overrides the default logger.
func WithLogger(l plogging.LeveledLogger) TesterOption {
	return func(o *testerOptions) {
		o.log = l
	}
}

// Tester checks whether a host can take part in a video call. It routes the
// camera, microphone and screen streams granted by a Gate to sinks and
// reports microphone levels.
//
// Operations are serialized; a blocking request holds up the next operation.
type Tester struct {
	gate        *Gate
	videoSink   Sink
	audioSink   Sink
	levelSink   LevelSink
	onVolume    func(float64)
	quietVolume float64
	meter       *volume.Meter
	log         plogging.LeveledLogger

	mu           sync.Mutex
	state        TesterState
	cameraStream MediaStream
	audioStream  MediaStream
	screenStream MediaStream
	processor    *volume.Processor
}

// NewTester creates a Tester. It fails with a ParameterError when gate is
// nil, when no container is given or resolved, or when the quiet volume is
// out of [0, 1].
func NewTester(gate *Gate, opts ...TesterOption) (*Tester, error) {
	o := testerOptions{
		quietVolume: DefaultQuietVolume,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if gate == nil {
		return nil, NewError(ParameterError, "Missing capability gate. Tests can't continue.")
	}

	if o.container == nil && o.resolve != nil {
		if c, ok := o.resolve(o.selector); ok {
			o.container = c
		}
	}
	if o.container == nil {
		return nil, NewError(ParameterError, "Missing required element parameter. Tests can't continue.")
	}

	if o.quietVolume < 0 || o.quietVolume > 1 {
		return nil, NewError(ParameterError, "Quiet volume must be within [0, 1].")
	}

	if o.log == nil {
		o.log = logging.NewLogger("mediacheck/tester")
	}

	videoContainer := o.container
	if o.videoContainer != nil {
		videoContainer = o.videoContainer
	}

	t := &Tester{
		gate:        gate,
		videoSink:   sink(videoContainer, SinkVideo),
		audioSink:   sink(o.container, SinkAudio),
		levelSink:   o.levelSink,
		onVolume:    o.onVolumeChange,
		quietVolume: o.quietVolume,
		log:         o.log,
	}
	t.meter = volume.NewMeter(
		volume.WithCallback(t.deliverLevel),
		volume.WithLogger(o.log),
	)
	return t, nil
}

// sink reuses the sink of kind in c, or appends one.
func sink(c Container, kind SinkKind) Sink {
	if s := c.LookupSink(kind); s != nil {
		return s
	}
	return c.AppendSink(kind)
}

func (t *Tester) deliverLevel(level float64) {
	if t.onVolume != nil {
		t.onVolume(level)
	}
	if t.levelSink != nil {
		t.levelSink.SetLevel(level)
	}
}

// CheckBrowser succeeds when a capability provider is present.
func (t *Tester) CheckBrowser() error {
	return t.gate.CheckSupport()
}

// StartVideo requests the camera and shows it on the video sink. While a
// screen is shared the camera stream is kept for EndScreenSharing.
func (t *Tester) StartVideo(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startVideo(ctx)
}

func (t *Tester) startVideo(ctx context.Context) error {
	if err := t.gate.CheckSupport(); err != nil {
		return err
	}

	// A restart releases the camera first so it can be granted again.
	if t.cameraStream != nil {
		if t.state == StateCameraActive {
			t.videoSink.SetSource(nil)
			t.state = StateIdle
		}
		if err := stopTracks(t.cameraStream); err != nil {
			t.log.Warnf("failed to stop previous camera stream: %v", err)
		}
		t.cameraStream = nil
	}

	s, err := t.gate.RequestStream(ctx, KindVideo, nil)
	if err != nil {
		return err
	}

	t.cameraStream = s
	if t.state != StateScreenActive {
		t.videoSink.SetSource(s)
		t.state = StateCameraActive
	}

	t.log.Infof("camera started, %d track(s)", len(s.GetVideoTracks()))
	return nil
}

// StartAudio requests the microphone, plays it back quietly on the audio
// sink and starts the volume meter on its first audio track.
func (t *Tester) StartAudio(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startAudio(ctx)
}

func (t *Tester) startAudio(ctx context.Context) error {
	if err := t.gate.CheckSupport(); err != nil {
		return err
	}

	if t.audioStream != nil {
		t.audioSink.SetSource(nil)
		if err := stopTracks(t.audioStream); err != nil {
			t.log.Warnf("failed to stop previous audio stream: %v", err)
		}
		t.audioStream = nil
		t.processor = nil
	}

	s, err := t.gate.RequestStream(ctx, KindAudio, nil)
	if err != nil {
		return err
	}

	var track AudioTrack
	if tracks := s.GetAudioTracks(); len(tracks) > 0 {
		track, _ = tracks[0].(AudioTrack)
	}
	if track == nil {
		if err := stopTracks(s); err != nil {
			t.log.Warnf("failed to stop audio stream: %v", err)
		}
		return NewError(BrowserNotSupported, "Your browser doesn't support web audio.")
	}

	t.audioSink.SetSource(s)
	t.audioSink.SetVolume(t.quietVolume)

	t.audioStream = s
	t.processor = t.meter.Attach(track.NewReader(false))

	t.log.Infof("microphone %q started", track.Label())
	return nil
}

// StartAll checks the browser, then starts video, then audio. It stops at
// the first failure.
func (t *Tester) StartAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.gate.CheckSupport(); err != nil {
		return err
	}
	if err := t.startVideo(ctx); err != nil {
		return err
	}
	return t.startAudio(ctx)
}

// AdjustVolume sets the playback volume of the audio sink.
func (t *Tester) AdjustVolume(v float64) error {
	if v < 0 || v > 1 {
		return NewError(ParameterError, "Volume must be within [0, 1].")
	}
	t.audioSink.SetVolume(v)
	return nil
}

// CheckScreenSharing reports whether screen sharing is available.
func (t *Tester) CheckScreenSharing() bool {
	return t.gate.CheckDisplaySupport()
}

// StartScreenSharing requests a screen stream and shows it on the video
// sink instead of the camera.
func (t *Tester) StartScreenSharing(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateScreenActive {
		return NewError(InvalidState, "Screen sharing has already been started.")
	}

	s, err := t.gate.RequestDisplayStream(ctx, nil)
	if err != nil {
		t.log.Warnf("screen sharing was not started: %v", err)
		return err
	}

	t.screenStream = s
	t.videoSink.SetSource(s)
	t.state = StateScreenActive

	t.log.Info("screen sharing started")
	return nil
}

// EndScreenSharing stops the screen stream and shows the camera again.
func (t *Tester) EndScreenSharing() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screenStream == nil {
		return NewError(InvalidState, "Screen sharing hasn't been started yet.")
	}

	t.videoSink.SetSource(t.cameraStream)
	err := stopTracks(t.screenStream)
	t.screenStream = nil
	if t.cameraStream != nil {
		t.state = StateCameraActive
	} else {
		t.state = StateIdle
	}

	t.log.Info("screen sharing ended")
	return err
}

// Levels returns the level channel of the running volume meter, nil before
// StartAudio. It is closed when the microphone stops.
func (t *Tester) Levels() <-chan float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.processor == nil {
		return nil
	}
	return t.processor.Levels()
}

// Level returns the latest microphone level.
func (t *Tester) Level() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.processor == nil {
		return 0
	}
	return t.processor.Level()
}

// State returns what the video sink shows.
func (t *Tester) State() TesterState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close stops every stream the tester owns and detaches the sinks.
func (t *Tester) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for _, s := range []MediaStream{t.screenStream, t.cameraStream, t.audioStream} {
		if err := stopTracks(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.screenStream, t.cameraStream, t.audioStream = nil, nil, nil

	t.videoSink.SetSource(nil)
	t.audioSink.SetSource(nil)
	t.state = StateIdle
	return firstErr
}
