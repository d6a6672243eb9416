package subdec_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mikeschinkel/go-dt/appinfo"
	subdec "github.com/mikeschinkel/go-subdec"
)

var errDeployFailed = errors.New("deploy failed")

func newTestRunner(w subdec.Writer, argv ...string) *subdec.Runner {
	return subdec.NewRunner(subdec.RunnerArgs{
		AppInfo: appinfo.New(appinfo.Args{
			Name:        "subdec-test",
			Description: "runner test harness",
			Version:     "0.0.0",
		}),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Writer: w,
		Args:   append([]string{"subdec-test"}, argv...),
	})
}

func deployCmd(ns any) error {
	n, ok := ns.(*subdec.Namespace)
	if !ok {
		return errors.New("unexpected namespace type")
	}
	if n.String("target") == "prod" {
		return errDeployFailed
	}
	return nil
}

func newRunnerCLI() *subdec.SubDec {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(deployCmd,
		sd.Op("description")("deploys a target"),
		sd.Op("add_argument")("--target", subdec.KW{"default": "staging"}),
	)
	return sd
}

func TestRunnerSuccess(t *testing.T) {
	w := subdec.NewBufferedWriter()
	r := newTestRunner(w, "deploy-cmd")

	exitCode, err := r.Run(newRunnerCLI())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if exitCode != subdec.ExitSuccess {
		t.Errorf("exit code = %d, want %d", exitCode, subdec.ExitSuccess)
	}
	if !w.ContainsStdout("Running command 'deploy-cmd'") {
		t.Errorf("stdout %q missing command announcement", w.GetStdout())
	}
}

func TestRunnerHandlerError(t *testing.T) {
	w := subdec.NewBufferedWriter()
	r := newTestRunner(w, "deploy-cmd", "--target", "prod")

	exitCode, err := r.Run(newRunnerCLI())
	if !errors.Is(err, errDeployFailed) {
		t.Fatalf("Run() error = %v, want errDeployFailed", err)
	}
	if exitCode != subdec.ExitKnownRuntimeError {
		t.Errorf("exit code = %d, want %d", exitCode, subdec.ExitKnownRuntimeError)
	}
	if !w.ContainsStderr("deploy failed") {
		t.Errorf("stderr %q missing error report", w.GetStderr())
	}
}

func TestRunnerUnknownCommand(t *testing.T) {
	w := subdec.NewBufferedWriter()
	r := newTestRunner(w, "no-such-command")

	exitCode, err := r.Run(newRunnerCLI())
	if !errors.Is(err, subdec.ErrUnknownCommand) {
		t.Fatalf("Run() error = %v, want ErrUnknownCommand", err)
	}
	if exitCode != subdec.ExitOptionsParseError {
		t.Errorf("exit code = %d, want %d", exitCode, subdec.ExitOptionsParseError)
	}
}

func TestRunnerBadGlobalOption(t *testing.T) {
	w := subdec.NewBufferedWriter()
	r := newTestRunner(w, "-v", "9", "deploy-cmd")

	exitCode, err := r.Run(newRunnerCLI())
	if !errors.Is(err, subdec.ErrInvalidVerbosity) {
		t.Fatalf("Run() error = %v, want ErrInvalidVerbosity", err)
	}
	if exitCode != subdec.ExitOptionsParseError {
		t.Errorf("exit code = %d, want %d", exitCode, subdec.ExitOptionsParseError)
	}
}

func TestRunnerParserSetupError(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(deployCmd, sd.Op("no_such_op")())

	w := subdec.NewBufferedWriter()
	r := newTestRunner(w, "deploy-cmd")

	exitCode, err := r.Run(sd)
	if !errors.Is(err, subdec.ErrCreateParserFailed) {
		t.Fatalf("Run() error = %v, want ErrCreateParserFailed", err)
	}
	if exitCode != subdec.ExitParserSetupError {
		t.Errorf("exit code = %d, want %d", exitCode, subdec.ExitParserSetupError)
	}
}
