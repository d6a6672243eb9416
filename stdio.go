package subdec

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Stdoutf writes directly to stdout, bypassing the Writer stack.
func Stdoutf(format string, args ...any) {
	Stdiof(os.Stdout, format, args...)
}

// Stderrf writes directly to stderr, bypassing the Writer stack.
func Stderrf(format string, args ...any) {
	Stdiof(os.Stderr, format, args...)
}

// Stdiof writes formatted output to w. Write failures on stdio are not
// actionable by the caller; they are logged and swallowed.
func Stdiof(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		slog.Error("Writing to stdio failed", "error", err)
	}
}
