package subdec

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Writer is the user-facing output surface for CLI applications built
// on this package. Printf output honors the quiet and verbosity
// settings; Errorf always writes.
type Writer interface {
	Printf(string, ...any)
	Errorf(string, ...any)
	Loud() Writer
	V(Verbosity) Writer
	Writer() io.Writer
	ErrWriter() io.Writer
}

var _ Writer = (*cliWriter)(nil)

// cliWriter writes to the configured out/err streams for normal CLI use
type cliWriter struct {
	writer    io.Writer
	errWriter io.Writer
	quiet     bool
	useLevel  Verbosity
	verbosity Verbosity

	mu      sync.Mutex
	loud    Writer
	leveled map[Verbosity]Writer
}

type WriterArgs struct {
	Out       io.Writer // nil means os.Stdout
	Err       io.Writer // nil means os.Stderr
	Quiet     bool
	Verbosity Verbosity
}

// NewWriter creates a console Writer.
func NewWriter(args *WriterArgs) Writer {
	if args == nil {
		args = &WriterArgs{
			Verbosity: LowVerbosity,
		}
	}
	if args.Verbosity < LowVerbosity || HighVerbosity < args.Verbosity {
		panic(fmt.Sprintf("invalid verbosity for subdec.NewWriter(); must be between 1-3; got %d", args.Verbosity))
	}
	out := args.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := args.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	return &cliWriter{
		writer:    out,
		errWriter: errOut,
		quiet:     args.Quiet,
		useLevel:  LowVerbosity,
		verbosity: args.Verbosity,
	}
}

func (w *cliWriter) Writer() io.Writer {
	return w.writer
}

func (w *cliWriter) ErrWriter() io.Writer {
	return w.errWriter
}

// V returns a Writer whose Printf only emits when the configured
// verbosity is at least level.
func (w *cliWriter) V(level Verbosity) (lw Writer) {
	var ok bool

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.leveled == nil {
		w.leveled = make(map[Verbosity]Writer)
	}
	lw, ok = w.leveled[level]
	if ok {
		goto end
	}
	lw = &cliWriter{
		writer:    w.writer,
		errWriter: w.errWriter,
		quiet:     w.quiet,
		verbosity: w.verbosity,
		useLevel:  level,
	}
	w.leveled[level] = lw
end:
	return lw
}

// Loud returns a Writer that ignores the quiet setting.
func (w *cliWriter) Loud() (lw Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loud != nil {
		lw = w.loud
		goto end
	}
	w.loud = &cliWriter{
		writer:    w.writer,
		errWriter: w.errWriter,
		quiet:     false,
		verbosity: w.verbosity,
		useLevel:  w.useLevel,
	}
	lw = w.loud
end:
	return lw
}

// Printf writes formatted output to the out stream
func (w *cliWriter) Printf(format string, args ...any) {
	if w.quiet {
		goto end
	}
	if w.verbosity < w.useLevel {
		goto end
	}
	_, _ = fmt.Fprintf(w.writer, format, args...)
end:
	return
}

// Errorf writes formatted error output to the err stream
func (w *cliWriter) Errorf(format string, args ...any) {
	for i, arg := range args {
		err, ok := arg.(error)
		if !ok {
			continue
		}
		// Replace newlines in errors with semicolons
		args[i] = strings.Replace(err.Error(), "\n", "; ", -1)
	}
	_, _ = fmt.Fprintf(w.errWriter, format, args...)
}

// Package-level output variables and synchronization
var (
	writer   Writer       // global Writer instance used for CLI operations
	writerMu sync.RWMutex // synchronizes access to writer
)

// SetWriter sets the global Writer (primarily for testing)
func SetWriter(w Writer) {
	writerMu.Lock()
	defer writerMu.Unlock()
	writer = w
	ensureWriter()
}

// GetWriter returns the current global Writer
func GetWriter() Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

// Printf writes formatted output via the global Writer
func Printf(format string, args ...any) {
	writerMu.RLock()
	defer writerMu.RUnlock()
	writer.Printf(format, args...)
}

// Errorf writes formatted error output via the global Writer
func Errorf(format string, args ...any) {
	writerMu.RLock()
	defer writerMu.RUnlock()
	writer.Errorf(format, args...)
}

// ensureWriter panics if no Writer has been set, preventing uninitialized usage
func ensureWriter() {
	if writer == nil {
		panic("Must set Writer with subdec.SetWriter() before using package output")
	}
}

// init registers the Writer initialization function
func init() {
	RegisterInitializerFunc(func(args InitializerArgs) error {
		SetWriter(args.Writer)
		return nil
	})
}
