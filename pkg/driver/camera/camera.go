/*
Package camera provides a video camera driver.

Device Label Generation Rules

On Linux, the device label will be in the format of:
	pci-0000:00:00.0-usb-0:0:0.0-video-index0;video0
If /dev/v4l/by-path/* is not available (for example in a docker container without
bindings in /dev/v4l/by-path/), it will be:
	video0;video0
*/
package camera

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/pion/mediacheck/pkg/driver/availability"
)

// LabelSeparator is used to separate labels for a driver that
// is found from multiple locations on a host.
const LabelSeparator = ";"

// openError attaches an availability reason to a device open failure.
func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return availability.Errorf(availability.ReasonPermissionDenied, "camera %s: %v", path, err)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENODEV):
		return availability.Errorf(availability.ReasonNotFound, "camera %s: %v", path, err)
	case errors.Is(err, syscall.EBUSY):
		return availability.Errorf(availability.ReasonBusy, "camera %s: %v", path, err)
	}
	return fmt.Errorf("camera %s: %w", path, err)
}
