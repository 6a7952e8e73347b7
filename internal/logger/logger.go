// Package logger holds the process-wide logrus logger that the container
// hands to every service it wires.
package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Init resets the shared logger to JSON output at info level.
func Init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
}

// SetLevel applies a textual level such as "debug". Unknown values keep the current level.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Get().WithField("level", level).Warn("Unknown log level, keeping current level")
		return
	}
	Get().SetLevel(lvl)
}

// Get returns the shared logger, initializing it on first use.
func Get() *logrus.Logger {
	once.Do(func() {
		if logger == nil {
			Init()
		}
	})
	return logger
}
