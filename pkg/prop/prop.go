// Package prop describes media properties. The same type is used for what a
// driver can deliver and for what a caller asks for.
package prop

import (
	"math"
	"reflect"
	"time"

	"github.com/pion/mediacheck/pkg/frame"
)

type Media struct {
	DeviceID string
	Video
	Audio
}

// Video represents a video's properties
type Video struct {
	Width, Height int
	FrameRate     float32
	FrameFormat   frame.Format
}

// Audio represents an audio's properties
type Audio struct {
	ChannelCount  int
	Latency       time.Duration
	SampleRate    int
	SampleSize    int
	IsBigEndian   bool
	IsFloat       bool
	IsInterleaved bool
}

// Merge merges all the field values from o to p, except zero values.
func (p *Media) Merge(o Media) {
	rp := reflect.ValueOf(p).Elem()
	ro := reflect.ValueOf(o)

	// merge b fields to a recursively
	var merge func(a, b reflect.Value)
	merge = func(a, b reflect.Value) {
		numFields := a.NumField()
		for i := 0; i < numFields; i++ {
			fieldA := a.Field(i)
			fieldB := b.Field(i)

			// if a is a struct, b is also a struct. Then,
			// we recursively merge them
			if fieldA.Kind() == reflect.Struct {
				merge(fieldA, fieldB)
				continue
			}

			// Booleans always carry the driver's value
			if fieldB.IsZero() && fieldB.Kind() != reflect.Bool {
				continue
			}

			fieldA.Set(fieldB)
		}
	}

	merge(rp, ro)
}

// FitnessDistance is an implementation for https://w3c.github.io/mediacapture-main/#dfn-fitness-distance
// p holds the ideal values and o the values offered by a device. Zero ideals are
// unconstrained and don't count.
func (p *Media) FitnessDistance(o Media) float64 {
	var dist float64

	numeric := func(ideal, actual float64) {
		if ideal == 0 || ideal == actual {
			return
		}
		dist += math.Abs(actual-ideal) / math.Max(math.Abs(actual), math.Abs(ideal))
	}
	discrete := func(constrained, matched bool) {
		if constrained && !matched {
			dist++
		}
	}

	numeric(float64(p.Width), float64(o.Width))
	numeric(float64(p.Height), float64(o.Height))
	numeric(float64(p.FrameRate), float64(o.FrameRate))
	discrete(p.FrameFormat != "", p.FrameFormat == o.FrameFormat)
	numeric(float64(p.ChannelCount), float64(o.ChannelCount))
	numeric(float64(p.SampleRate), float64(o.SampleRate))
	numeric(float64(p.Latency), float64(o.Latency))
	return dist
}
