// Package logging wraps sirupsen/logrus with the field conventions used
// across regvm's CLI and machine diagnostics.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text-formatted logrus.Logger, with level controlled by
// trace. Direct CLI output (register dumps, program results) goes through
// internal/format and plain stdout instead — this logger is reserved for
// diagnostics.
//
// logPath, when non-empty, names a file (typically under
// config.GetLogPath()) that diagnostics are additionally appended to
// alongside stderr, the way lookbusy1344-arm_emulator's CLI tees trace
// output into its log directory. A file that can't be opened is not
// fatal: the logger falls back to stderr only.
func New(trace bool, logPath string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(logOutput(logPath))
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if trace {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func logOutput(logPath string) io.Writer {
	if logPath == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640) // #nosec G304 -- caller-controlled log directory
	if err != nil {
		return os.Stderr
	}
	return io.MultiWriter(os.Stderr, f)
}

// MachineLogger adapts a logrus.FieldLogger to machine.Logger's minimal
// Warnf-only interface, so the core machine package never imports logrus
// directly.
type MachineLogger struct {
	Entry logrus.FieldLogger
}

// Warnf logs at warning level, satisfying machine.Logger.
func (m MachineLogger) Warnf(format string, args ...interface{}) {
	m.Entry.Warnf(format, args...)
}
