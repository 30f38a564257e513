package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log is the process-wide logger. It is a no-op logger until InitWithLevel is called,
// so packages can log from tests without setting anything up.
var Log = zap.NewNop()

var mu sync.Mutex

// InitWithLevel replaces Log; verbose switches to the development config
// (debug level, console encoder). The previous logger is flushed. Call it
// again once the level from the config file is known.
func InitWithLevel(verbose bool) {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return
	}

	mu.Lock()
	previous := Log
	Log = l
	mu.Unlock()
	_ = previous.Sync()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
