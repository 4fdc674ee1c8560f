package driver

import (
	"errors"
	"testing"

	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

var (
	recordErr = errors.New("failed to start recording")
)

type adapterMock struct{ closes int }

func (a *adapterMock) Open() error              { return nil }
func (a *adapterMock) Close() error             { a.closes++; return nil }
func (a *adapterMock) Properties() []prop.Media { return []prop.Media{{}} }

type videoAdapterMock struct{ adapterMock }

func (a *videoAdapterMock) VideoRecord(p prop.Media) (r video.Reader, err error) { return nil, nil }

type videoAdapterBrokenMock struct{ adapterMock }

func (a *videoAdapterBrokenMock) VideoRecord(p prop.Media) (r video.Reader, err error) {
	return nil, recordErr
}

type audioAdapterMock struct{ adapterMock }

func (a *audioAdapterMock) AudioRecord(p prop.Media) (r audio.Reader, err error) { return nil, nil }

type audioAdapterBrokenMock struct{ adapterMock }

func (a *audioAdapterBrokenMock) AudioRecord(p prop.Media) (r audio.Reader, err error) {
	return nil, recordErr
}

func TestVideoWrapperState(t *testing.T) {
	var a videoAdapterMock
	d := wrapAdapter(&a, Info{})

	if d.Properties() != nil {
		t.Errorf("expected nil, but got %v", d.Properties())
	}

	vr := d.(VideoRecorder)
	_, err := vr.VideoRecord(prop.Media{})
	if err == nil {
		t.Errorf("expected to get an invalid state")
	}

	err = d.Open()
	if err != nil {
		t.Errorf("expected to successfully open, but got %v", err)
	}

	props := d.Properties()
	if len(props) != 1 || props[0].DeviceID != d.ID() {
		t.Errorf("expected properties to carry the driver id, got %v", props)
	}

	_, err = vr.VideoRecord(prop.Media{})
	if err != nil {
		t.Errorf("expected to successfully start recording, but got %v", err)
	}

	if d.Status() != StateRunning {
		t.Errorf("expected the status to be %v, but got %v", StateRunning, d.Status())
	}

	_, err = vr.VideoRecord(prop.Media{})
	if err == nil {
		t.Errorf("expected an error when recording twice")
	}
	if d.Status() != StateRunning {
		t.Errorf("a rejected second record must not stop the driver, got %v", d.Status())
	}

	if err := d.Close(); err != nil {
		t.Errorf("expected to close, but got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("closing twice must be a no-op, but got %v", err)
	}
	if a.closes != 1 {
		t.Errorf("expected the adapter to be closed once, got %d", a.closes)
	}
}

func TestVideoWrapperWithBrokenRecorderState(t *testing.T) {
	var a videoAdapterBrokenMock
	d := wrapAdapter(&a, Info{})

	err := d.Open()
	if err != nil {
		t.Errorf("expected to open successfully")
	}

	vr := d.(VideoRecorder)
	_, err = vr.VideoRecord(prop.Media{})
	if err == nil {
		t.Errorf("expected to get an error")
	}

	if err != recordErr {
		t.Errorf("expected to get %v, but got %v", recordErr, err)
	}

	if d.Status() != StateClosed {
		t.Errorf("expected the status to be %v, but got %v", StateClosed, d.Status())
	}
}

func TestAudioWrapperState(t *testing.T) {
	var a audioAdapterMock
	d := wrapAdapter(&a, Info{})

	if d.Properties() != nil {
		t.Errorf("expected nil, but got %v", d.Properties())
	}

	ar := d.(AudioRecorder)
	_, err := ar.AudioRecord(prop.Media{})
	if err == nil {
		t.Errorf("expected to get an invalid state")
	}

	err = d.Open()
	if err != nil {
		t.Errorf("expected to successfully open, but got %v", err)
	}

	_, err = ar.AudioRecord(prop.Media{})
	if err != nil {
		t.Errorf("expected to successfully start recording, but got %v", err)
	}
}

func TestAudioWrapperWithBrokenRecorderState(t *testing.T) {
	var a audioAdapterBrokenMock
	d := wrapAdapter(&a, Info{})

	err := d.Open()
	if err != nil {
		t.Errorf("expected to open successfully")
	}

	ar := d.(AudioRecorder)
	_, err = ar.AudioRecord(prop.Media{})
	if err != recordErr {
		t.Errorf("expected to get %v, but got %v", recordErr, err)
	}

	if d.Status() != StateClosed {
		t.Errorf("expected the status to be %v, but got %v", StateClosed, d.Status())
	}
}
