package subdec_test

import (
	"bytes"
	"errors"
	"testing"

	subdec "github.com/mikeschinkel/go-subdec"
)

type failingIOWriter struct{}

func (failingIOWriter) Write([]byte) (int, error) {
	return 0, errors.New("stream closed")
}

func TestStdiof(t *testing.T) {
	var buf bytes.Buffer

	subdec.Stdiof(&buf, "checked %d of %d\n", 3, 7)
	if got := buf.String(); got != "checked 3 of 7\n" {
		t.Errorf("output = %q, want formatted line", got)
	}

	// Write failures are logged, never returned or panicked.
	subdec.Stdiof(failingIOWriter{}, "lost output\n")
}
