//go:build !linux

package camera

import "github.com/pion/mediacheck/pkg/driver"

// Register is a no-op on platforms without a V4L2 camera driver.
func Register(m *driver.Manager) error {
	return nil
}
