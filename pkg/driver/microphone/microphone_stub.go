//go:build nomicrophone

// Package microphone provides the miniaudio backed microphone driver. This
// build was made with the nomicrophone tag and registers nothing.
package microphone

import "github.com/pion/mediacheck/pkg/driver"

// Register is a no-op without miniaudio.
func Register(m *driver.Manager) error {
	return nil
}
