package logging

import (
	"bytes"
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.LogLevel{
		"trace":    logging.LogLevelTrace,
		"DEBUG":    logging.LogLevelDebug,
		" info ":   logging.LogLevelInfo,
		"warn":     logging.LogLevelWarn,
		"warning":  logging.LogLevelWarn,
		"error":    logging.LogLevelError,
		"disabled": logging.LogLevelDisabled,
		"off":      logging.LogLevelDisabled,
	}
	for name, expected := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	before := NewLogger("mediacheck/test-before")
	SetLevel(logging.LogLevelError)
	defer SetLevel(logging.LogLevelInfo)

	after := NewLogger("mediacheck/test-after")
	for _, l := range []logging.LeveledLogger{before, after} {
		dl, ok := l.(*logging.DefaultLeveledLogger)
		require.True(t, ok)

		var buf bytes.Buffer
		dl.WithOutput(&buf)
		dl.Warn("dropped")
		assert.Empty(t, buf.String())
		dl.Error("kept")
		assert.Contains(t, buf.String(), "kept")
	}
}

func TestNewLoggerSharesScope(t *testing.T) {
	first := NewLogger("mediacheck/shared")
	for i := 0; i < 1000; i++ {
		assert.Same(t, first, NewLogger("mediacheck/shared"))
	}
	assert.NotSame(t, first, NewLogger("mediacheck/other"))

	mu.Lock()
	defer mu.Unlock()
	count := 0
	for scope := range loggers {
		if scope == "mediacheck/shared" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
