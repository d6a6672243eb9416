package subdec_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	subdec "github.com/mikeschinkel/go-subdec"
)

func newTestWriterLogger() (subdec.WriterLogger, *subdec.BufferedWriter, *bytes.Buffer) {
	var logBuf bytes.Buffer

	w := subdec.NewBufferedWriter()
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	return subdec.NewWriterLogger(w, logger), w, &logBuf
}

func TestWriterLoggerInfoPrint(t *testing.T) {
	wl, w, logBuf := newTestWriterLogger()

	wl.InfoPrint("Synced repos", "count", 3)

	if !w.ContainsStdout("Synced repos; count=3") {
		t.Errorf("stdout %q missing the printed message", w.GetStdout())
	}
	if !strings.Contains(logBuf.String(), "Synced repos") {
		t.Errorf("log %q missing the Info record", logBuf.String())
	}
}

func TestWriterLoggerWarnError(t *testing.T) {
	wl, w, logBuf := newTestWriterLogger()

	wl.WarnError("Retrying fetch", "attempt", 2)

	if !w.ContainsStderr("Retrying fetch; attempt=2") {
		t.Errorf("stderr %q missing the warning", w.GetStderr())
	}
	if !strings.Contains(logBuf.String(), "level=WARN") {
		t.Errorf("log %q missing the Warn record", logBuf.String())
	}
}

func TestWriterLoggerErrorError(t *testing.T) {
	wl, w, _ := newTestWriterLogger()
	cause := errors.New("connection refused")

	err := wl.ErrorError("Fetch failed", "host", "example.com", cause)
	if err == nil {
		t.Fatal("ErrorError() returned nil")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not keep the cause matchable", err)
	}
	if !w.ContainsStderr("Fetch failed") {
		t.Errorf("stderr %q missing the error message", w.GetStderr())
	}
}
