package mediacheck

import (
	"sync"
)

// SinkKind is the kind of media a Sink renders.
type SinkKind int

// SinkKind definitions.
const (
	SinkVideo SinkKind = iota + 1
	SinkAudio
)

func (k SinkKind) String() string {
	switch k {
	case SinkVideo:
		return "video"
	case SinkAudio:
		return "audio"
	}
	return "unknown"
}

// Sink renders a stream, like a media element on a page.
type Sink interface {
	// SetSource points the sink at s. A nil stream detaches the sink.
	SetSource(s MediaStream)
	Source() MediaStream
	// SetVolume sets the playback volume in [0, 1]. Video sinks may ignore it.
	SetVolume(v float64)
}

// Container owns the sinks a Tester renders to.
type Container interface {
	// LookupSink returns the existing sink of kind, or nil.
	LookupSink(kind SinkKind) Sink
	// AppendSink creates a sink of kind inside the container.
	AppendSink(kind SinkKind) Sink
}

// LevelSink displays microphone levels in [0, 1].
type LevelSink interface {
	SetLevel(level float64)
}

// LevelSinkFunc adapts a function to a LevelSink.
type LevelSinkFunc func(level float64)

func (f LevelSinkFunc) SetLevel(level float64) {
	f(level)
}

// ContainerResolver finds a container by selector.
type ContainerResolver func(selector string) (Container, bool)

// NewContainer creates an in-memory Container. Its sinks only record what
// they were given.
func NewContainer() *MemoryContainer {
	return &MemoryContainer{}
}

// MemoryContainer is an in-memory Container.
type MemoryContainer struct {
	mu    sync.Mutex
	sinks []*MemorySink
}

func (c *MemoryContainer) LookupSink(kind SinkKind) Sink {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.sinks {
		if s.kind == kind {
			return s
		}
	}
	return nil
}

func (c *MemoryContainer) AppendSink(kind SinkKind) Sink {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &MemorySink{kind: kind, volume: 1}
	c.sinks = append(c.sinks, s)
	return s
}

// Sinks returns the sinks in creation order.
func (c *MemoryContainer) Sinks() []*MemorySink {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*MemorySink(nil), c.sinks...)
}

// MemorySink is a Sink recording its source and volume.
type MemorySink struct {
	kind SinkKind

	mu     sync.Mutex
	source MediaStream
	volume float64
}

func (s *MemorySink) Kind() SinkKind {
	return s.kind
}

func (s *MemorySink) SetSource(stream MediaStream) {
	s.mu.Lock()
	s.source = stream
	s.mu.Unlock()
}

func (s *MemorySink) Source() MediaStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *MemorySink) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Volume returns the volume, 1 until set.
func (s *MemorySink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}
