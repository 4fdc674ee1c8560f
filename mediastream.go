package mediacheck

import (
	"sync"

	"github.com/pion/webrtc/v4"
)

// MediaStream is a set of live tracks, as defined in
// https://w3c.github.io/mediacapture-main/#dom-mediastream
type MediaStream interface {
	GetAudioTracks() []Track
	GetVideoTracks() []Track
	GetTracks() []Track
	AddTrack(t Track)
	RemoveTrack(t Track)
}

type mediaStream struct {
	tracks []Track
	l      sync.RWMutex
}

const trackKindAny webrtc.RTPCodecType = 0

// NewMediaStream creates a MediaStream holding tracks. Tracks keep their
// insertion order and duplicated IDs are ignored.
func NewMediaStream(tracks ...Track) (MediaStream, error) {
	m := mediaStream{}

	for _, track := range tracks {
		m.AddTrack(track)
	}

	return &m, nil
}

// GetAudioTracks implements https://w3c.github.io/mediacapture-main/#dom-mediastream-getaudiotracks
func (m *mediaStream) GetAudioTracks() []Track {
	return m.queryTracks(webrtc.RTPCodecTypeAudio)
}

// GetVideoTracks implements https://w3c.github.io/mediacapture-main/#dom-mediastream-getvideotracks
func (m *mediaStream) GetVideoTracks() []Track {
	return m.queryTracks(webrtc.RTPCodecTypeVideo)
}

// GetTracks implements https://w3c.github.io/mediacapture-main/#dom-mediastream-gettracks
func (m *mediaStream) GetTracks() []Track {
	return m.queryTracks(trackKindAny)
}

// queryTracks returns all tracks of kind t. trackKindAny matches every track.
func (m *mediaStream) queryTracks(t webrtc.RTPCodecType) []Track {
	m.l.RLock()
	defer m.l.RUnlock()

	result := make([]Track, 0)
	for _, track := range m.tracks {
		if track.Kind() == t || t == trackKindAny {
			result = append(result, track)
		}
	}

	return result
}

// AddTrack implements https://w3c.github.io/mediacapture-main/#dom-mediastream-addtrack
func (m *mediaStream) AddTrack(t Track) {
	m.l.Lock()
	defer m.l.Unlock()

	if m.indexOf(t.ID()) >= 0 {
		return
	}

	m.tracks = append(m.tracks, t)
}

// RemoveTrack implements https://w3c.github.io/mediacapture-main/#dom-mediastream-removetrack
func (m *mediaStream) RemoveTrack(t Track) {
	m.l.Lock()
	defer m.l.Unlock()

	if i := m.indexOf(t.ID()); i >= 0 {
		m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
	}
}

func (m *mediaStream) indexOf(id string) int {
	for i, track := range m.tracks {
		if track.ID() == id {
			return i
		}
	}
	return -1
}

// stopTracks stops every track of s and returns the first error.
func stopTracks(s MediaStream) error {
	if s == nil {
		return nil
	}

	var firstErr error
	for _, t := range s.GetTracks() {
		if err := t.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
