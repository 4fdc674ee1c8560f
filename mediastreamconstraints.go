package mediacheck

import (
	"github.com/pion/mediacheck/pkg/prop"
)

// MediaStreamConstraints selects the kinds of media a request asks for. A
// nil option means the kind is not requested.
type MediaStreamConstraints struct {
	Audio MediaOption
	Video MediaOption
}

// MediaTrackConstraints represents https://w3c.github.io/mediacapture-main/#dom-mediatrackconstraints
// Zero fields are unconstrained.
type MediaTrackConstraints struct {
	prop.Media
}

// MediaOption is a track constraints option.
type MediaOption func(*MediaTrackConstraints)

func (o MediaOption) apply() prop.Media {
	var c MediaTrackConstraints
	o(&c)
	return c.Media
}
