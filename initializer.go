package subdec

import (
	"log/slog"
)

// InitializerArgs carries the resources initializer funcs may capture:
// the Writer the Runner settled on after global options, and its
// logger.
type InitializerArgs struct {
	Writer Writer
	Logger *slog.Logger
}

// InitializerFunc runs once per Runner startup, after global options
// parse and before parsers materialize.
type InitializerFunc func(InitializerArgs) error

var initializerFuncs []InitializerFunc

// RegisterInitializerFunc registers f to run during Runner startup.
// Call from init() in packages that need the configured Writer.
func RegisterInitializerFunc(f InitializerFunc) {
	initializerFuncs = append(initializerFuncs, f)
}

// CallInitializerFuncs runs every registered initializer, collecting
// errors rather than stopping at the first.
func CallInitializerFuncs(args InitializerArgs) error {
	var errs []error

	for _, f := range initializerFuncs {
		errs = AppendErr(errs, f(args))
	}
	return CombineErrs(errs)
}
