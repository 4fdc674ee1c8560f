package camera

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/pion/mediacheck/pkg/driver/availability"
)

func TestOpenError(t *testing.T) {
	cases := map[string]struct {
		err      error
		expected availability.Reason
	}{
		"Permission": {&fs.PathError{Op: "open", Path: "/dev/video0", Err: syscall.EACCES}, availability.ReasonPermissionDenied},
		"Missing":    {&fs.PathError{Op: "stat", Path: "/dev/video0", Err: syscall.ENOENT}, availability.ReasonNotFound},
		"NoDevice":   {syscall.ENODEV, availability.ReasonNotFound},
		"Busy":       {fmt.Errorf("open: %w", syscall.EBUSY), availability.ReasonBusy},
		"Other":      {errors.New("boom"), availability.ReasonUnknown},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			err := openError("/dev/video0", c.err)
			if r := availability.ReasonOf(err); r != c.expected {
				t.Errorf("expected %q, got %q (%v)", c.expected, r, err)
			}
		})
	}
}
