package mediacheck

import (
	"context"
	"fmt"
	"math"

	plogging "github.com/pion/logging"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/driver/availability"
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

// MediaDevices provides access to the capture devices registered on a
// driver manager: cameras and microphones, as well as screens. It is the
// capability provider backing a Gate.
type MediaDevices struct {
	manager *driver.Manager
	mediaDevicesOptions
}

type mediaDevicesOptions struct {
	videoTransform video.TransformFunc
	audioTransform audio.TransformFunc
	log            plogging.LeveledLogger
}

// MediaDevicesOption is a type of MediaDevices functional option.
type MediaDevicesOption func(*mediaDevicesOptions)

// WithVideoTransformers will be used to transform the video that's coming from the driver.
// So, basically it'll look like following: driver -> VideoTransform -> track readers
func WithVideoTransformers(transformFuncs ...video.TransformFunc) MediaDevicesOption {
	return func(o *mediaDevicesOptions) {
		o.videoTransform = video.Merge(transformFuncs...)
	}
}

// WithAudioTransformers will be used to transform the audio that's coming from the driver.
// So, basically it'll look like following: driver -> AudioTransform -> track readers
func WithAudioTransformers(transformFuncs ...audio.TransformFunc) MediaDevicesOption {
	return func(o *mediaDevicesOptions) {
		o.audioTransform = audio.Merge(transformFuncs...)
	}
}

// WithMediaDevicesLogger overrides the default logger.
func WithMediaDevicesLogger(l plogging.LeveledLogger) MediaDevicesOption {
	return func(o *mediaDevicesOptions) {
		o.log = l
	}
}

// NewMediaDevices creates MediaDevices over the drivers of manager. A nil
// manager selects the process wide driver.GetManager().
func NewMediaDevices(manager *driver.Manager, opts ...MediaDevicesOption) *MediaDevices {
	if manager == nil {
		manager = driver.GetManager()
	}

	var o mediaDevicesOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.NewLogger("mediacheck/mediadevices")
	}

	return &MediaDevices{
		manager:             manager,
		mediaDevicesOptions: o,
	}
}

// GetDisplayMedia prompts the user to select and grant permission to capture the contents
// of a display or portion thereof (such as a window) as a MediaStream.
// Reference: https://developer.mozilla.org/en-US/docs/Web/API/MediaDevices/getDisplayMedia
func (m *MediaDevices) GetDisplayMedia(ctx context.Context, constraints MediaStreamConstraints) (MediaStream, error) {
	if constraints.Video == nil {
		return nil, NewError(ParameterError, "display media requires video")
	}

	tracks := make([]Track, 0)

	cleanTracks := func() {
		for _, t := range tracks {
			t.Stop()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	track, err := m.selectScreen(constraints.Video.apply())
	if err != nil {
		return nil, err
	}
	tracks = append(tracks, track)

	s, err := NewMediaStream(tracks...)
	if err != nil {
		cleanTracks()
		return nil, err
	}

	return s, nil
}

// GetUserMedia prompts the user for permission to use a media input which produces a MediaStream
// with tracks containing the requested types of media.
// Reference: https://developer.mozilla.org/en-US/docs/Web/API/MediaDevices/getUserMedia
func (m *MediaDevices) GetUserMedia(ctx context.Context, constraints MediaStreamConstraints) (MediaStream, error) {
	if constraints.Video == nil && constraints.Audio == nil {
		return nil, NewError(ParameterError, "at least one of audio and video must be requested")
	}

	tracks := make([]Track, 0)

	cleanTracks := func() {
		for _, t := range tracks {
			t.Stop()
		}
	}

	if constraints.Video != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		track, err := m.selectVideo(constraints.Video.apply())
		if err != nil {
			cleanTracks()
			return nil, err
		}

		tracks = append(tracks, track)
	}

	if constraints.Audio != nil {
		if err := ctx.Err(); err != nil {
			cleanTracks()
			return nil, err
		}

		track, err := m.selectAudio(constraints.Audio.apply())
		if err != nil {
			cleanTracks()
			return nil, err
		}

		tracks = append(tracks, track)
	}

	s, err := NewMediaStream(tracks...)
	if err != nil {
		cleanTracks()
		return nil, err
	}

	return s, nil
}

type driverProperties struct {
	d     driver.Driver
	props []prop.Media
}

// queryDriverProperties collects the capabilities of the drivers matching
// filter, in registration order. Running drivers are in use and skipped. The
// returned reason is the most relevant failure when no driver could be
// opened: permission problems first, then busy devices, then missing devices.
// cause is the first open error whose reason is none of those.
func (m *MediaDevices) queryDriverProperties(filter driver.FilterFn) (result []driverProperties, reason availability.Reason, cause error) {
	var needToClose []driver.Driver
	drivers := m.manager.Query(filter)
	result = make([]driverProperties, 0, len(drivers))
	reason = availability.ReasonNotFound

	rank := map[availability.Reason]int{
		availability.ReasonNotFound:         0,
		availability.ReasonBusy:             1,
		availability.ReasonNotAllowed:       2,
		availability.ReasonPermissionDenied: 3,
	}
	note := func(r availability.Reason) {
		if rank[r] > rank[reason] {
			reason = r
		}
	}

	for _, d := range drivers {
		switch d.Status() {
		case driver.StateRunning:
			note(availability.ReasonBusy)
			continue
		case driver.StateClosed:
			err := d.Open()
			if err != nil {
				// Skip this driver if we failed to open because we can't get the properties
				m.log.Debugf("skipping %q: %v", d.Info().Label, err)
				r := availability.ReasonOf(err)
				if _, ranked := rank[r]; !ranked && cause == nil {
					cause = err
				}
				note(r)
				continue
			}
			needToClose = append(needToClose, d)
		}

		result = append(result, driverProperties{d: d, props: d.Properties()})
	}

	for _, d := range needToClose {
		// Since it was closed, we should close it to avoid a leak
		d.Close()
	}

	return result, reason, cause
}

// selectBestDriver implements SelectSettings algorithm. Ties go to the
// driver registered first.
// Reference: https://w3c.github.io/mediacapture-main/#dfn-selectsettings
func (m *MediaDevices) selectBestDriver(filter driver.FilterFn, constraints prop.Media) (driver.Driver, prop.Media, error) {
	var bestDriver driver.Driver
	var bestProp prop.Media
	minFitnessDist := math.Inf(1)

	candidates, reason, cause := m.queryDriverProperties(filter)
	for _, c := range candidates {
		priority := float64(c.d.Info().Priority)
		for _, p := range c.props {
			fitnessDist := constraints.FitnessDistance(p) - priority
			if fitnessDist < minFitnessDist {
				minFitnessDist = fitnessDist
				bestDriver = c.d
				bestProp = p
			}
		}
	}

	if bestDriver == nil {
		if reason == availability.ReasonNotFound && cause != nil {
			return nil, prop.Media{}, fmt.Errorf("failed to find the best driver that fits the constraints: %w", cause)
		}
		return nil, prop.Media{}, availability.Errorf(reason, "failed to find the best driver that fits the constraints: %s", reason)
	}

	m.log.Debugf("selected %q (fitness distance %.3f)", bestDriver.Info().Label, minFitnessDist)
	constraints.Merge(bestProp)
	return bestDriver, constraints, nil
}

func (m *MediaDevices) selectAudio(constraints prop.Media) (Track, error) {
	typeFilter := driver.FilterAudioRecorder()
	filter := typeFilter
	if constraints.DeviceID != "" {
		idFilter := driver.FilterID(constraints.DeviceID)
		filter = driver.FilterAnd(typeFilter, idFilter)
	}

	d, c, err := m.selectBestDriver(filter, constraints)
	if err != nil {
		return nil, err
	}

	return newTrack(d, c, &m.mediaDevicesOptions)
}

func (m *MediaDevices) selectVideo(constraints prop.Media) (Track, error) {
	typeFilter := driver.FilterVideoRecorder()
	notScreenFilter := driver.FilterNot(driver.FilterDeviceType(driver.Screen))
	filter := driver.FilterAnd(typeFilter, notScreenFilter)
	if constraints.DeviceID != "" {
		idFilter := driver.FilterID(constraints.DeviceID)
		filter = driver.FilterAnd(typeFilter, notScreenFilter, idFilter)
	}

	d, c, err := m.selectBestDriver(filter, constraints)
	if err != nil {
		return nil, err
	}

	return newTrack(d, c, &m.mediaDevicesOptions)
}

func (m *MediaDevices) selectScreen(constraints prop.Media) (Track, error) {
	typeFilter := driver.FilterVideoRecorder()
	screenFilter := driver.FilterDeviceType(driver.Screen)
	filter := driver.FilterAnd(typeFilter, screenFilter)
	if constraints.DeviceID != "" {
		idFilter := driver.FilterID(constraints.DeviceID)
		filter = driver.FilterAnd(typeFilter, screenFilter, idFilter)
	}

	d, c, err := m.selectBestDriver(filter, constraints)
	if err != nil {
		return nil, err
	}

	// Screens scale to any size, keep the requested one.
	if constraints.Width != 0 && constraints.Height != 0 {
		c.Width, c.Height = constraints.Width, constraints.Height
	}

	return newTrack(d, c, &m.mediaDevicesOptions)
}

// EnumerateDevices lists the registered capture devices.
func (m *MediaDevices) EnumerateDevices() []MediaDeviceInfo {
	drivers := m.manager.Query(
		driver.FilterFn(func(driver.Driver) bool { return true }))
	info := make([]MediaDeviceInfo, 0, len(drivers))
	for _, d := range drivers {
		var kind MediaDeviceType
		switch {
		case driver.FilterVideoRecorder()(d):
			kind = VideoInput
		case driver.FilterAudioRecorder()(d):
			kind = AudioInput
		default:
			continue
		}
		driverInfo := d.Info()
		info = append(info, MediaDeviceInfo{
			DeviceID:   d.ID(),
			Kind:       kind,
			Label:      driverInfo.Label,
			DeviceType: driverInfo.DeviceType,
		})
	}
	return info
}
