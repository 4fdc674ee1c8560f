package availability

import (
	"errors"
	"fmt"
	"testing"
)

func TestReasonOf(t *testing.T) {
	cases := map[string]struct {
		err      error
		expected Reason
	}{
		"NoDevice":   {ErrNoDevice, ReasonNotFound},
		"Wrapped":    {fmt.Errorf("open /dev/video0: %w", ErrPermissionDenied), ReasonPermissionDenied},
		"Formatted":  {Errorf(ReasonBusy, "camera %d is busy", 0), ReasonBusy},
		"NotOurs":    {errors.New("boom"), ReasonUnknown},
		"Nil":        {nil, ReasonUnknown},
		"NotAllowed": {ErrNotAllowed, ReasonNotAllowed},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			if r := ReasonOf(c.err); r != c.expected {
				t.Errorf("expected %q, got %q", c.expected, r)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := Errorf(ReasonNotFound, "camera %q is gone", "cam0")
	if !errors.Is(err, ErrNoDevice) {
		t.Error("expected a not-found error to match ErrNoDevice")
	}
	if errors.Is(err, ErrBusy) {
		t.Error("expected a not-found error not to match ErrBusy")
	}
	if !IsError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected IsError to see through wrapping")
	}
}
