// internal/logger/logger.go
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	shared *logrus.Logger
)

// NewLogger returns the process-wide logger. Each package keeps its own
// reference: `var customLog = logger.NewLogger()`. A single shared instance is
// used so the TUI entrypoint can redirect every package's output at once.
func NewLogger() *logrus.Logger {
	once.Do(func() {
		shared = logrus.New()
		shared.SetOutput(os.Stderr)
		shared.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			shared.SetLevel(lvl)
		} else {
			shared.SetLevel(logrus.InfoLevel)
		}
	})
	return shared
}

// SetOutput redirects all logging. The terminal UI owns stderr while it runs,
// so the entrypoint points this at a file instead.
func SetOutput(w io.Writer) {
	NewLogger().SetOutput(w)
}
