package volume

import (
	"io"
	"math"
	"sync/atomic"

	plogging "github.com/pion/logging"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/internal/metrics"
	"github.com/pion/mediacheck/pkg/io/audio"
)

const defaultLevelBuffer = 16

// Option configures a Meter.
type Option func(*Meter)

// WithCallback sets a function called with every level, on the processor
// goroutine. It must return quickly.
func WithCallback(fn func(float64)) Option {
	return func(m *Meter) {
		m.callback = fn
	}
}

// WithLevelBuffer sets the capacity of the processor level channels.
func WithLevelBuffer(n int) Option {
	return func(m *Meter) {
		if n >= 0 {
			m.bufferSize = n
		}
	}
}

// WithLogger overrides the meter logger.
func WithLogger(l plogging.LeveledLogger) Option {
	return func(m *Meter) {
		m.log = l
	}
}

// Meter attaches level processors to audio readers.
type Meter struct {
	callback   func(float64)
	bufferSize int
	log        plogging.LeveledLogger
}

// NewMeter creates a Meter.
func NewMeter(opts ...Option) *Meter {
	m := &Meter{
		bufferSize: defaultLevelBuffer,
	}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = logging.NewLogger("mediacheck/volume")
	}
	return m
}

// Attach starts analysing r in BlockSize blocks on a new goroutine. The
// processor runs until r fails; io.EOF, which readers return once their
// track is stopped, is a clean stop.
func (m *Meter) Attach(r audio.Reader) *Processor {
	p := &Processor{
		levels:   make(chan float64, m.bufferSize),
		done:     make(chan struct{}),
		callback: m.callback,
		log:      m.log,
	}

	reader := audio.Merge(
		audio.NewBuffer(BlockSize),
		Analyze(p.deliver),
	)(r)

	metrics.VolumeProcessors.Inc()
	go p.run(reader)
	return p
}

// Processor is a running analysis of one audio reader.
type Processor struct {
	levels   chan float64
	done     chan struct{}
	err      error
	level    atomic.Uint64
	blocks   atomic.Uint64
	dropped  atomic.Uint64
	callback func(float64)
	log      plogging.LeveledLogger
}

func (p *Processor) run(reader audio.Reader) {
	defer metrics.VolumeProcessors.Dec()

	for {
		_, release, err := reader.Read()
		if release != nil {
			release()
		}
		if err != nil {
			if err != io.EOF {
				p.log.Warnf("volume processor stopped: %v", err)
				p.err = err
			} else {
				p.log.Debug("audio source ended, volume processor stopped")
			}
			close(p.levels)
			close(p.done)
			return
		}
	}
}

// deliver never blocks the pipeline: levels nobody is waiting for are dropped.
func (p *Processor) deliver(level float64) {
	p.level.Store(math.Float64bits(level))
	p.blocks.Add(1)
	metrics.VolumeBlocks.Inc()

	if p.callback != nil {
		p.callback(level)
	}

	select {
	case p.levels <- level:
	default:
		p.dropped.Add(1)
		metrics.VolumeLevelsDropped.Inc()
	}
}

// Levels returns the level channel. It is closed when the processor stops.
func (p *Processor) Levels() <-chan float64 {
	return p.levels
}

// Done is closed when the processor stops.
func (p *Processor) Done() <-chan struct{} {
	return p.done
}

// Err returns the error that stopped the processor. It is nil while running
// and after a clean stop.
func (p *Processor) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Level returns the latest level, 0 before the first block.
func (p *Processor) Level() float64 {
	return math.Float64frombits(p.level.Load())
}

// Blocks returns the number of analysed blocks.
func (p *Processor) Blocks() uint64 {
	return p.blocks.Load()
}

// Dropped returns the number of levels dropped from the level channel.
func (p *Processor) Dropped() uint64 {
	return p.dropped.Load()
}
