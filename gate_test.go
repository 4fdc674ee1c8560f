package mediacheck

import (
	"context"
	"errors"
	"testing"

	"github.com/pion/mediacheck/pkg/driver/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	supported   bool
	err         error
	calls       int
	constraints MediaStreamConstraints
}

func (p *fakeProvider) Supported() bool {
	return p.supported
}

func (p *fakeProvider) GetUserMedia(_ context.Context, c MediaStreamConstraints) (MediaStream, error) {
	p.calls++
	p.constraints = c
	if p.err != nil {
		return nil, p.err
	}
	return NewMediaStream()
}

func (p *fakeProvider) GetDisplayMedia(ctx context.Context, c MediaStreamConstraints) (MediaStream, error) {
	return p.GetUserMedia(ctx, c)
}

func TestGateCheckSupport(t *testing.T) {
	assert.ErrorIs(t, NewGate().CheckSupport(), ErrBrowserNotSupported)
	assert.ErrorIs(t, NewGate(WithUserMediaProviders(nil, nil)).CheckSupport(), ErrBrowserNotSupported)
	assert.ErrorIs(t, NewGate(WithUserMediaProviders(&fakeProvider{})).CheckSupport(), ErrBrowserNotSupported)

	assert.NoError(t, NewGate(WithUserMediaProviders(nil, &fakeProvider{supported: true})).CheckSupport())
	assert.NoError(t, NewGate(WithUserMediaProviders(NewMediaDevices(nil))).CheckSupport())
}

func TestGateTypedNilProviders(t *testing.T) {
	var md *MediaDevices
	var fake *fakeProvider
	g := NewGate(
		WithUserMediaProviders(md, fake),
		WithDisplayMediaProvider(md),
	)

	assert.ErrorIs(t, g.CheckSupport(), ErrBrowserNotSupported)
	assert.False(t, g.CheckDisplaySupport())

	require.NotPanics(t, func() {
		_, err := g.RequestStream(context.Background(), KindVideo, nil)
		assert.ErrorIs(t, err, ErrBrowserNotSupported)
		_, err = g.RequestStream(context.Background(), KindScreen, nil)
		assert.ErrorIs(t, err, ErrBrowserNotSupported)
	})

	fallback := &fakeProvider{supported: true}
	_, err := NewGate(WithUserMediaProviders(md, fallback)).RequestStream(context.Background(), KindAudio, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
}

func TestGateFirstProviderWins(t *testing.T) {
	absent := &fakeProvider{}
	first := &fakeProvider{supported: true}
	second := &fakeProvider{supported: true}
	g := NewGate(WithUserMediaProviders(absent, first, second))

	_, err := g.RequestStream(context.Background(), KindVideo, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, absent.calls)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.NotNil(t, first.constraints.Video)
	assert.Nil(t, first.constraints.Audio)

	_, err = g.RequestStream(context.Background(), KindAudio, nil)
	require.NoError(t, err)
	assert.Nil(t, first.constraints.Video)
	assert.NotNil(t, first.constraints.Audio)
}

func TestGateRequestStreamErrors(t *testing.T) {
	other := errors.New("something else")
	busy := availability.Errorf(availability.ReasonBusy, "in use")

	cases := map[string]struct {
		kind     MediaKind
		err      error
		expected error
	}{
		"VideoNotFound":         {KindVideo, availability.ErrNoDevice, ErrVideoNotFound},
		"VideoNotAllowed":       {KindVideo, availability.ErrNotAllowed, ErrVideoDenied},
		"VideoPermissionDenied": {KindVideo, availability.ErrPermissionDenied, ErrVideoDenied},
		"AudioNotFound":         {KindAudio, availability.ErrNoDevice, ErrAudioNotFound},
		"AudioNotAllowed":       {KindAudio, availability.ErrNotAllowed, ErrAudioDenied},
		"AudioPermissionDenied": {KindAudio, availability.ErrPermissionDenied, ErrAudioDenied},
		"VideoBusy":             {KindVideo, busy, busy},
		"AudioOther":            {KindAudio, other, other},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g := NewGate(WithUserMediaProviders(&fakeProvider{supported: true, err: c.err}))

			_, err := g.RequestStream(context.Background(), c.kind, nil)
			assert.ErrorIs(t, err, c.expected)
			assert.ErrorIs(t, err, c.err)
		})
	}

	t.Run("Unmapped errors keep their identity", func(t *testing.T) {
		g := NewGate(WithUserMediaProviders(&fakeProvider{supported: true, err: other}))
		_, err := g.RequestStream(context.Background(), KindVideo, nil)
		assert.Same(t, other, err)
	})

	t.Run("NoProvider", func(t *testing.T) {
		_, err := NewGate().RequestStream(context.Background(), KindAudio, nil)
		assert.ErrorIs(t, err, ErrBrowserNotSupported)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		g := NewGate(WithUserMediaProviders(&fakeProvider{supported: true}))
		_, err := g.RequestStream(context.Background(), MediaKind(0), nil)
		assert.ErrorIs(t, err, ErrParameter)
	})
}

func TestGateDisplay(t *testing.T) {
	t.Run("NotSupported", func(t *testing.T) {
		user := &fakeProvider{supported: true}
		g := NewGate(WithUserMediaProviders(user))

		assert.False(t, g.CheckDisplaySupport())
		_, err := g.RequestStream(context.Background(), KindScreen, nil)
		assert.ErrorIs(t, err, ErrBrowserNotSupported)
		assert.Equal(t, 0, user.calls)
	})

	t.Run("Unsupported provider is absent", func(t *testing.T) {
		display := &fakeProvider{}
		g := NewGate(WithDisplayMediaProvider(display))

		assert.False(t, g.CheckDisplaySupport())
		_, err := g.RequestDisplayStream(context.Background(), nil)
		assert.ErrorIs(t, err, ErrBrowserNotSupported)
		assert.Equal(t, 0, display.calls)
	})

	t.Run("Requested", func(t *testing.T) {
		display := &fakeProvider{supported: true}
		g := NewGate(WithDisplayMediaProvider(display))

		assert.True(t, g.CheckDisplaySupport())
		_, err := g.RequestStream(context.Background(), KindScreen, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, display.calls)
		assert.NotNil(t, display.constraints.Video)
	})

	t.Run("Failures are not translated", func(t *testing.T) {
		display := &fakeProvider{supported: true, err: availability.ErrNotAllowed}
		g := NewGate(WithDisplayMediaProvider(display))

		_, err := g.RequestDisplayStream(context.Background(), nil)
		assert.Same(t, availability.ErrNotAllowed, err)
	})
}
