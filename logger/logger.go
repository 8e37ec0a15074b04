package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init, at warn level, so
// library code and tests never see a nil logger.
var Log = newLogger(os.Stderr, "warn", "text")

// Init configures the global logger. Empty arguments fall back to LOG_LEVEL
// and LOG_FORMAT, then to "info" and "text".
func Init(level, format string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	Log = newLogger(os.Stdout, level, format)
}

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(out io.Writer) {
	Log.SetOutput(out)
}

func newLogger(out io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	l.SetOutput(out)
	return l
}
