package subdec_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	subdec "github.com/mikeschinkel/go-subdec"
)

var (
	initSeen    []subdec.InitializerArgs
	initFailure error
)

func init() {
	subdec.RegisterInitializerFunc(func(args subdec.InitializerArgs) error {
		initSeen = append(initSeen, args)
		return initFailure
	})
}

func TestCallInitializerFuncs(t *testing.T) {
	w := subdec.NewBufferedWriter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	initSeen = nil
	err := subdec.CallInitializerFuncs(subdec.InitializerArgs{Writer: w, Logger: logger})
	if err != nil {
		t.Fatalf("CallInitializerFuncs() failed: %v", err)
	}
	if len(initSeen) != 1 {
		t.Fatalf("initializer ran %d times, want 1", len(initSeen))
	}
	if initSeen[0].Writer != subdec.Writer(w) {
		t.Error("initializer did not receive the configured Writer")
	}
	if initSeen[0].Logger != logger {
		t.Error("initializer did not receive the configured Logger")
	}
}

func TestCallInitializerFuncsCollectsErrors(t *testing.T) {
	wantErr := errors.New("setup failed")
	initFailure = wantErr
	defer func() { initFailure = nil }()

	err := subdec.CallInitializerFuncs(subdec.InitializerArgs{
		Writer: subdec.NewBufferedWriter(),
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error %v does not match the initializer's error", err)
	}
}
