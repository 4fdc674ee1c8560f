// Package logging hands out scoped pion loggers that share one factory, so
// the level of every component can be changed from a single place.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	loggerFactory = logging.NewDefaultLoggerFactory()

	mu      sync.Mutex
	loggers = map[string]logging.LeveledLogger{}
)

// NewLogger returns the logger for scope. Scopes are "mediacheck/<component>"
// and every caller asking for the same scope shares one logger.
func NewLogger(scope string) logging.LeveledLogger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[scope]; ok {
		return l
	}
	l := loggerFactory.NewLogger(scope)
	loggers[scope] = l
	return l
}

// ParseLevel converts a level name (trace, debug, info, warn, error, disabled)
// to a pion log level.
func ParseLevel(name string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return logging.LogLevelTrace, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "error":
		return logging.LogLevelError, nil
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	}
	return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", name)
}

// SetLevel changes the level of every logger created so far and of the ones
// created afterwards.
func SetLevel(level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	loggerFactory.DefaultLogLevel = level
	for _, l := range loggers {
		if dl, ok := l.(*logging.DefaultLeveledLogger); ok {
			dl.SetLevel(level)
		}
	}
}
