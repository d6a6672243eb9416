package subdec

import (
	"context"
	"log/slog"

	"github.com/mikeschinkel/go-dt/appinfo"
)

// Runner drives a SubDec-configured CLI end to end: global options,
// parser materialization, command dispatch, handler invocation. It
// returns exit codes rather than exiting; the embedding program owns
// os.Exit.
type Runner struct {
	Args RunnerArgs
}

type RunnerArgs struct {
	AppInfo appinfo.AppInfo
	Logger  *slog.Logger
	Writer  Writer
	Context context.Context
	Args    []string // os.Args, program name included
}

func NewRunner(args RunnerArgs) *Runner {
	return &Runner{
		Args: args,
	}
}

// Run materializes sd into a fresh Group, parses the command line, and
// invokes the matched handler with the parsed namespace.
func (r *Runner) Run(sd *SubDec) (exitCode int, err error) {
	var opts *Options
	var args []string
	var group *Group
	var ns *Namespace
	var fn HandlerFunc
	var w Writer
	var wl WriterLogger
	var logger *slog.Logger

	logger = r.Args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w = r.Args.Writer

	opts, args, err = ParseOptions(r.Args.Args)
	if err != nil {
		exitCode = ExitOptionsParseError
		goto end
	}

	if w == nil {
		// Verbosity 0 is quiet; NewWriter itself wants 1..3.
		w = NewWriter(&WriterArgs{
			Quiet:     opts.Quiet() || opts.Verbosity() == NoVerbosity,
			Verbosity: max(opts.Verbosity(), LowVerbosity),
		})
	}
	err = CallInitializerFuncs(InitializerArgs{Writer: w, Logger: logger})
	if err != nil {
		exitCode = ExitWriterSetupError
		goto end
	}
	wl = NewWriterLogger(w, logger)
	wl.V(HighVerbosity).Printf("%s %s\n",
		r.Args.AppInfo.Name(), r.Args.AppInfo.Version())

	group = NewGroup()
	err = sd.CreateParsers(group)
	if err != nil {
		exitCode = ExitParserSetupError
		goto end
	}

	ns, err = group.Parse(args)
	if err != nil {
		exitCode = ExitOptionsParseError
		goto end
	}

	fn, err = ns.Handler(sd.FnDest())
	if err != nil {
		exitCode = ExitNoHandlerError
		goto end
	}

	wl.V(MediumVerbosity).Printf("Running command '%s'\n", ns.Command)
	err = fn(ns)
	if err != nil {
		exitCode = ExitKnownRuntimeError
		goto end
	}
	exitCode = ExitSuccess
end:
	if err != nil {
		logger.Error("Command failed", "error", err)
		if w != nil {
			w.Errorf("Error: %v\n", err)
		} else {
			Stderrf("Error: %v\n", err)
		}
	}
	return exitCode, err
}
