package subdec

const (
	DefaultQuiet     = false
	DefaultVerbosity = int(LowVerbosity)
)

var options = &Options{
	quiet:     new(bool),
	verbosity: new(int),
}

func GetOptions() *Options {
	return options
}

// Options are the global, command-independent CLI options the Runner
// parses before subcommand dispatch.
type Options struct {
	quiet     *bool
	verbosity *int
}

func (o *Options) Quiet() bool {
	return *o.quiet
}
func (o *Options) Verbosity() Verbosity {
	return Verbosity(*o.verbosity)
}

func GetGlobalFlagSet() *FlagSet {
	return globalFlagSet
}

var globalFlagSet = &FlagSet{
	Name: "global",
	FlagDefs: []FlagDef{
		{
			Name:     "verbosity",
			Shortcut: 'v',
			Default:  DefaultVerbosity,
			Usage:    "Verbosity of most command line output (1 to 3, default 1)",
			Int:      options.verbosity,
		},
		{
			Name:     "quiet",
			Shortcut: 'q',
			Default:  DefaultQuiet,
			Usage:    "Disable display of most command line output",
			Bool:     options.quiet,
		},
	},
}

// ParseOptions parses the global options off the front of the command
// line. Expects os.Args as input; strips the program name and returns
// the remaining arguments for subcommand dispatch.
func ParseOptions(osArgs []string) (_ *Options, _ []string, err error) {
	var errs []error
	var verbosity Verbosity
	var args []string

	// Strip program name from os.Args
	if len(osArgs) > 0 {
		args = osArgs[1:]
	}

	args, err = globalFlagSet.Parse(args)
	if err != nil {
		goto end
	}

	verbosity, err = ParseVerbosity(*options.verbosity)
	errs = AppendErr(errs, err)
	if err == nil {
		*options.verbosity = int(verbosity)
	}

	err = CombineErrs(errs)
end:
	return options, args, err
}
