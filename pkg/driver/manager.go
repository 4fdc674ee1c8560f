package driver

import (
	"errors"
	"sync"
)

var errUnsupportedAdapter = errors.New("adapter has to be either VideoRecorder or AudioRecorder")

// FilterFn is being used to decide if a driver should be included in the
// query result.
type FilterFn func(Driver) bool

// FilterVideoRecorder return a filter function to get a list of registered VideoRecorders
func FilterVideoRecorder() FilterFn {
	return func(d Driver) bool {
		_, ok := d.(VideoRecorder)
		return ok
	}
}

// FilterAudioRecorder return a filter function to get a list of registered AudioRecorders
func FilterAudioRecorder() FilterFn {
	return func(d Driver) bool {
		_, ok := d.(AudioRecorder)
		return ok
	}
}

// FilterDeviceType returns a filter function to get a list of registered drivers which matches the device type
func FilterDeviceType(t DeviceType) FilterFn {
	return func(d Driver) bool {
		return d.Info().DeviceType == t
	}
}

// FilterID returns a filter function to get registered drivers which have given ID
func FilterID(id string) FilterFn {
	return func(d Driver) bool {
		return d.ID() == id
	}
}

// FilterNot returns a filter function to get registered drivers which don't match the given filter
func FilterNot(filter FilterFn) FilterFn {
	return func(d Driver) bool {
		return !filter(d)
	}
}

// FilterAnd returns a filter function to get registered drivers which match all the given filters
func FilterAnd(filters ...FilterFn) FilterFn {
	return func(d Driver) bool {
		for _, filter := range filters {
			if !filter(d) {
				return false
			}
		}
		return true
	}
}

// Manager is a registry of drivers. Drivers are returned in registration order.
type Manager struct {
	mu      sync.RWMutex
	drivers []Driver
}

var manager = NewManager()

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{}
}

// GetManager gets manager singleton instance
func GetManager() *Manager {
	return manager
}

// Register registers adapter to be discoverable by Query
func (m *Manager) Register(a Adapter, info Info) error {
	d := wrapAdapter(a, info)
	if d == nil {
		return errUnsupportedAdapter
	}

	m.mu.Lock()
	m.drivers = append(m.drivers, d)
	m.mu.Unlock()
	return nil
}

// Query queries by using f to filter drivers, and simply return the filtered results.
func (m *Manager) Query(f FilterFn) []Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Driver, 0)
	for _, d := range m.drivers {
		if ok := f(d); ok {
			results = append(results, d)
		}
	}

	return results
}
