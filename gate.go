package mediacheck

import (
	"context"
	"errors"
	"reflect"

	plogging "github.com/pion/logging"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/internal/metrics"
	"github.com/pion/mediacheck/pkg/driver/availability"
)

// MediaKind is the kind of media a request asks for.
type MediaKind int

// MediaKind definitions.
const (
	KindVideo MediaKind = iota + 1
	KindAudio
	KindScreen
)

func (k MediaKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindScreen:
		return "screen"
	}
	return "unknown"
}

// UserMediaProvider grants camera and microphone streams.
type UserMediaProvider interface {
	GetUserMedia(ctx context.Context, constraints MediaStreamConstraints) (MediaStream, error)
}

// DisplayMediaProvider grants screen capture streams.
type DisplayMediaProvider interface {
	GetDisplayMedia(ctx context.Context, constraints MediaStreamConstraints) (MediaStream, error)
}

// A provider implementing supporter and reporting false counts as absent.
type supporter interface {
	Supported() bool
}

// Gate detects which capability provider is present and requests streams
// from it, translating provider failures into classified errors.
type Gate struct {
	providers []UserMediaProvider
	display   DisplayMediaProvider
	log       plogging.LeveledLogger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithUserMediaProviders sets the candidate providers in preference order.
// Nil entries are absent providers.
func WithUserMediaProviders(providers ...UserMediaProvider) GateOption {
	return func(g *Gate) {
		g.providers = providers
	}
}

// WithDisplayMediaProvider sets the screen capture provider.
func WithDisplayMediaProvider(p DisplayMediaProvider) GateOption {
	return func(g *Gate) {
		g.display = p
	}
}

// WithGateLogger overrides the default logger.
func WithGateLogger(l plogging.LeveledLogger) GateOption {
	return func(g *Gate) {
		g.log = l
	}
}

// NewGate creates a Gate.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{}
	for _, o := range opts {
		o(g)
	}
	if g.log == nil {
		g.log = logging.NewLogger("mediacheck/gate")
	}
	return g
}

func present(p interface{}) bool {
	if p == nil {
		return false
	}
	if v := reflect.ValueOf(p); v.Kind() == reflect.Ptr && v.IsNil() {
		return false
	}
	if s, ok := p.(supporter); ok {
		return s.Supported()
	}
	return true
}

func (g *Gate) provider() UserMediaProvider {
	for _, p := range g.providers {
		if present(p) {
			return p
		}
	}
	return nil
}

// CheckSupport succeeds when at least one user media provider is present.
func (g *Gate) CheckSupport() error {
	if g.provider() == nil {
		return NewError(BrowserNotSupported, "")
	}
	return nil
}

// CheckDisplaySupport reports whether screen capture is available.
func (g *Gate) CheckDisplaySupport() bool {
	return present(g.display)
}

func anyMedia(*MediaTrackConstraints) {}

// RequestStream requests a stream of kind from the first present provider.
// A nil opt requests the kind without constraints.
func (g *Gate) RequestStream(ctx context.Context, kind MediaKind, opt MediaOption) (MediaStream, error) {
	if opt == nil {
		opt = anyMedia
	}

	var constraints MediaStreamConstraints
	switch kind {
	case KindVideo:
		constraints.Video = opt
	case KindAudio:
		constraints.Audio = opt
	case KindScreen:
		return g.RequestDisplayStream(ctx, opt)
	default:
		return nil, g.observe(kind, NewError(ParameterError, "unknown media kind"))
	}

	p := g.provider()
	if p == nil {
		return nil, g.observe(kind, NewError(BrowserNotSupported, ""))
	}

	s, err := p.GetUserMedia(ctx, constraints)
	if err != nil {
		return nil, g.observe(kind, translate(kind, err))
	}
	return s, g.observe(kind, nil)
}

// RequestDisplayStream requests a screen capture stream. It fails without
// calling anything when no display provider is present.
func (g *Gate) RequestDisplayStream(ctx context.Context, opt MediaOption) (MediaStream, error) {
	if !g.CheckDisplaySupport() {
		return nil, g.observe(KindScreen, NewError(BrowserNotSupported, "Your browser doesn't support screen sharing."))
	}
	if opt == nil {
		opt = anyMedia
	}

	s, err := g.display.GetDisplayMedia(ctx, MediaStreamConstraints{Video: opt})
	if err != nil {
		return nil, g.observe(KindScreen, err)
	}
	return s, g.observe(KindScreen, nil)
}

func (g *Gate) observe(kind MediaKind, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
		var e *Error
		if errors.As(err, &e) {
			result = e.Kind.String()
		}
		g.log.Debugf("%s request failed: %v", kind, err)
	}
	metrics.MediaRequests.WithLabelValues(kind.String(), result).Inc()
	return err
}

type translation struct {
	kind   MediaKind
	reason availability.Reason
}

var translations = map[translation]ErrorKind{
	{KindVideo, availability.ReasonNotFound}:         VideoNotFound,
	{KindVideo, availability.ReasonNotAllowed}:       VideoDenied,
	{KindVideo, availability.ReasonPermissionDenied}: VideoDenied,
	{KindAudio, availability.ReasonNotFound}:         AudioNotFound,
	{KindAudio, availability.ReasonNotAllowed}:       AudioDenied,
	{KindAudio, availability.ReasonPermissionDenied}: AudioDenied,
}

// translate maps a provider failure onto the error taxonomy. Failures
// without a translation are returned unchanged.
func translate(kind MediaKind, err error) error {
	if !availability.IsError(err) {
		return err
	}
	if k, ok := translations[translation{kind, availability.ReasonOf(err)}]; ok {
		return wrapError(k, err)
	}
	return err
}
