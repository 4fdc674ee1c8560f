package driver

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

func wrapAdapter(a Adapter, info Info) Driver {
	generator, err := uuid.NewRandom()
	if err != nil {
		panic(err)
	}

	d := &adapterWrapper{
		Adapter: a,
		id:      generator.String(),
		info:    info,
		state:   StateClosed,
	}

	switch v := a.(type) {
	case VideoRecorder:
		return &videoAdapterWrapper{
			adapterWrapper: d,
			VideoRecorder:  v,
		}
	case AudioRecorder:
		return &audioAdapterWrapper{
			adapterWrapper: d,
			AudioRecorder:  v,
		}
	}

	return nil
}

type adapterWrapper struct {
	Adapter
	id    string
	info  Info
	mu    sync.Mutex
	state State
}

func (w *adapterWrapper) ID() string {
	return w.id
}

func (w *adapterWrapper) Info() Info {
	return w.info
}

func (w *adapterWrapper) Status() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *adapterWrapper) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Update(StateOpened, w.Adapter.Open)
}

func (w *adapterWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return nil
	}
	return w.state.Update(StateClosed, w.Adapter.Close)
}

func (w *adapterWrapper) Properties() []prop.Media {
	if w.Status() == StateClosed {
		return nil
	}

	p := w.Adapter.Properties()
	for i := range p {
		p[i].DeviceID = w.id
	}
	return p
}

// record moves the driver to running. A failed start closes the driver so it
// can be opened again by the next request.
func (w *adapterWrapper) record(start func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var started bool
	err := w.state.Update(StateRunning, func() error {
		started = true
		return start()
	})
	if err != nil && started {
		w.state.Update(StateClosed, w.Adapter.Close)
	}
	return err
}

type videoAdapterWrapper struct {
	*adapterWrapper
	VideoRecorder
}

func (w *videoAdapterWrapper) VideoRecord(p prop.Media) (r video.Reader, err error) {
	err = w.record(func() error {
		r, err = w.VideoRecorder.VideoRecord(p)
		return err
	})
	return
}

type audioAdapterWrapper struct {
	*adapterWrapper
	AudioRecorder
}

func (w *audioAdapterWrapper) AudioRecord(p prop.Media) (r audio.Reader, err error) {
	err = w.record(func() error {
		r, err = w.AudioRecorder.AudioRecord(p)
		return err
	})
	return
}
