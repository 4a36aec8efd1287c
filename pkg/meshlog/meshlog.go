// Package meshlog provides the kernel's only logging surface: a thin
// wrapper over the standard library's *log.Logger that prefixes every
// line with the failing operation, the way chazu-lignin's app.go tags
// its own log.Printf calls with "Evaluate" / "Tessellate".
package meshlog

import (
	"io"
	"log"
	"os"
)

// Logger logs operation failures and progress without taking on any
// library-wide singleton: every caller owns (and can discard) its own
// instance, so pkg/mesh and pkg/rebuild never reach for a package-level
// global.
type Logger struct {
	std *log.Logger
}

// New returns a Logger writing to w, or os.Stderr if w is nil.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{std: log.New(w, "", log.LstdFlags)}
}

// Op returns a Logger that tags every line with op, e.g. "RebuildAsync".
func (l *Logger) Op(op string) *Logger {
	return &Logger{std: log.New(l.std.Writer(), op+": ", log.LstdFlags)}
}

func (l *Logger) Printf(format string, args ...any) { l.std.Printf(format, args...) }
func (l *Logger) Println(args ...any)               { l.std.Println(args...) }
