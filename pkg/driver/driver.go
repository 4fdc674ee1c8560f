// Package driver keeps the registry of capture device adapters and wraps
// them with an open/record/close state machine.
package driver

import (
	"github.com/pion/mediacheck/pkg/io/audio"
	"github.com/pion/mediacheck/pkg/io/video"
	"github.com/pion/mediacheck/pkg/prop"
)

type OpenCloser interface {
	Open() error
	Close() error
}

type Infoer interface {
	Info() Info
}

type Info struct {
	Label      string
	DeviceType DeviceType
	Priority   Priority
}

type Adapter interface {
	OpenCloser
	Properties() []prop.Media
}

type VideoRecorder interface {
	VideoRecord(p prop.Media) (r video.Reader, err error)
}

type AudioRecorder interface {
	AudioRecord(p prop.Media) (r audio.Reader, err error)
}

type Driver interface {
	Adapter
	Infoer
	ID() string
	Status() State
}
