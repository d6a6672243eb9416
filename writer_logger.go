package subdec

import (
	"fmt"
	"log/slog"
	"strings"
)

// WriterLogger pairs a user-facing Writer with a structured logger so
// callers can emit both in one call.
type WriterLogger struct {
	Writer
	*slog.Logger
}

func NewWriterLogger(writer Writer, logger *slog.Logger) WriterLogger {
	return WriterLogger{Writer: writer, Logger: logger}
}

func (wl WriterLogger) Printf(format string, args ...any) {
	wl.Writer.Printf(format, args...)
}

// InfoPrint logs msg at Info and prints it to the Writer.
func (wl WriterLogger) InfoPrint(msg string, args ...any) {
	wl.Logger.Info(msg, args...)
	wl.Writer.Printf(concatMsgAndArgs(msg, args...) + "\n")
}

// WarnError logs msg at Warn and writes it to the error stream.
func (wl WriterLogger) WarnError(msg string, args ...any) {
	wl.Logger.Warn(msg, args...)
	wl.Writer.Errorf(concatMsgAndArgs(msg, args...) + "\n")
}

// ErrorError logs msg at Error, writes it to the error stream, and
// returns an error carrying the message. When the final arg is itself
// an error it stays matchable in the result.
func (wl WriterLogger) ErrorError(msg string, args ...any) (err error) {
	var wrapped error
	var ok bool

	wl.Logger.Error(msg, args...)
	msg = concatMsgAndArgs(msg, args...)
	wl.Writer.Errorf(msg + "\n")
	err = fmt.Errorf("%s", msg)
	if len(args) == 0 {
		goto end
	}
	wrapped, ok = args[len(args)-1].(error)
	if !ok {
		goto end
	}
	err = NewErr(err, wrapped)
end:
	return err
}

func concatMsgAndArgs(msg string, args ...any) string {
	var sb strings.Builder

	sb.WriteString(msg)
	if len(args) > 0 {
		sb.WriteByte(';')
	}
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			sb.WriteString(fmt.Sprintf(" %v", args[i]))
			break
		}
		sb.WriteString(fmt.Sprintf(" %s=%v", args[i], args[i+1]))
	}
	return sb.String()
}
