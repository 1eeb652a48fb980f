// Package clipboard copies built summaries to the user's clipboard and shows
// a short confirmation badge.
package clipboard

import (
	"io"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/zap"
)

// Method is how a text reached the clipboard
type Method string

const (
	MethodNone   Method = "none"
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// swapped in tests
var (
	systemWriteAll    = sysclip.WriteAll
	systemUnsupported = func() bool { return sysclip.Unsupported }
)

// Copier writes to the system clipboard and falls back to an OSC 52 escape
// sequence on the terminal, which also reaches the local clipboard over SSH.
type Copier struct {
	terminal io.Writer
	system   bool
	logger   *zap.Logger
}

// New returns a copier. A nil terminal disables the fallback, system false
// skips the system clipboard.
func New(terminal io.Writer, system bool, logger *zap.Logger) *Copier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{terminal: terminal, system: system, logger: logger}
}

// Copy places text on the clipboard. It reports the method used and
// whether the copy happened.
func (c *Copier) Copy(text string) (Method, bool) {
	if c.system && !systemUnsupported() {
		err := systemWriteAll(text)
		if err == nil {
			return MethodSystem, true
		}
		c.logger.Debug("System clipboard failed", zap.Error(err))
	}

	if c.terminal == nil {
		return MethodNone, false
	}
	if _, err := osc52.New(text).WriteTo(c.terminal); err != nil {
		c.logger.Warn("OSC 52 copy failed", zap.Error(err))
		return MethodNone, false
	}
	return MethodOSC52, true
}
