package subdec

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// BufferedWriter implements Writer and captures all output in buffers
// for testing.
type BufferedWriter struct {
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	mu        sync.RWMutex
	quiet     bool
	verbosity Verbosity
	useLevel  Verbosity
	loud      Writer
	leveled   map[Verbosity]Writer
}

var _ Writer = (*BufferedWriter)(nil)

// NewBufferedWriter creates a BufferedWriter at maximum verbosity.
func NewBufferedWriter() *BufferedWriter {
	return &BufferedWriter{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		verbosity: HighVerbosity,
		useLevel:  LowVerbosity,
	}
}

// NewBufferedWriterWithVerbosity creates a BufferedWriter with the
// given verbosity level.
func NewBufferedWriterWithVerbosity(verbosity Verbosity) *BufferedWriter {
	if verbosity < LowVerbosity || verbosity > HighVerbosity {
		panic(fmt.Sprintf("invalid verbosity for BufferedWriter; must be between 1-3; got %d", verbosity))
	}
	return &BufferedWriter{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		verbosity: verbosity,
		useLevel:  LowVerbosity,
	}
}

// Printf writes formatted output to the stdout buffer
func (w *BufferedWriter) Printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.quiet {
		return
	}
	if w.verbosity < w.useLevel {
		return
	}
	w.stdout.WriteString(fmt.Sprintf(format, args...))
}

// Errorf writes formatted error output to the stderr buffer
func (w *BufferedWriter) Errorf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Flatten newlines in error args (same as cliWriter)
	processed := make([]any, len(args))
	for i, arg := range args {
		if err, ok := arg.(error); ok {
			processed[i] = strings.Replace(err.Error(), "\n", "; ", -1)
		} else {
			processed[i] = arg
		}
	}
	w.stderr.WriteString(fmt.Sprintf(format, processed...))
}

// Loud returns a Writer that ignores the quiet setting, sharing buffers
func (w *BufferedWriter) Loud() Writer {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loud != nil {
		return w.loud
	}
	w.loud = &BufferedWriter{
		stdout:    w.stdout, // Share the same buffers
		stderr:    w.stderr,
		quiet:     false,
		verbosity: w.verbosity,
		useLevel:  w.useLevel,
	}
	return w.loud
}

// V returns a Writer for the given verbosity level, sharing buffers
func (w *BufferedWriter) V(level Verbosity) Writer {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.leveled == nil {
		w.leveled = make(map[Verbosity]Writer)
	}
	if lw, ok := w.leveled[level]; ok {
		return lw
	}
	lw := &BufferedWriter{
		stdout:    w.stdout, // Share the same buffers
		stderr:    w.stderr,
		quiet:     w.quiet,
		verbosity: w.verbosity,
		useLevel:  level,
	}
	w.leveled[level] = lw
	return lw
}

func (w *BufferedWriter) Writer() io.Writer {
	return w.stdout
}

func (w *BufferedWriter) ErrWriter() io.Writer {
	return w.stderr
}

// Testing helper methods

// GetStdout returns the current stdout buffer contents
func (w *BufferedWriter) GetStdout() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stdout.String()
}

// GetStderr returns the current stderr buffer contents
func (w *BufferedWriter) GetStderr() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stderr.String()
}

// ContainsStdout returns true if the stdout buffer contains s
func (w *BufferedWriter) ContainsStdout(s string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return strings.Contains(w.stdout.String(), s)
}

// ContainsStderr returns true if the stderr buffer contains s
func (w *BufferedWriter) ContainsStderr(s string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return strings.Contains(w.stderr.String(), s)
}

// Reset clears both buffers
func (w *BufferedWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stdout.Reset()
	w.stderr.Reset()
}
