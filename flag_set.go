package subdec

import (
	"flag"
	"io"
	"regexp"

	"github.com/mikeschinkel/go-dt"
)

var flagNameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// FlagSet groups FlagDefs and parses them through a stdlib flag set.
// The stdlib set runs with ContinueOnError and discarded output so this
// package owns the whole error and usage surface.
type FlagSet struct {
	Name     string
	FlagDefs []FlagDef
}

// AddFlagDef appends fd after checking it against the set's existing
// flags. Duplicate names are rejected.
func (fs *FlagSet) AddFlagDef(fd FlagDef) (err error) {
	var errs []error

	if fd.Name == "" {
		errs = append(errs, NewErr(dt.ErrEmpty, "empty_property", "Name"))
	} else if !flagNameRegex.MatchString(fd.Name) {
		errs = append(errs, NewErr(dt.ErrInvalidFlagName,
			"rule", "may contain only lowercase letters, numbers, and dashes"))
	}
	if fd.Shortcut != 0 && fd.Name == string(fd.Shortcut) {
		errs = append(errs, NewErr(dt.ErrInvalidDuplicateFlag,
			"where", fs.Name, "shortcut", string(fd.Shortcut)))
	}
	for i := range fs.FlagDefs {
		if fs.FlagDefs[i].collidesWith(&fd) {
			errs = append(errs, NewErr(dt.ErrInvalidDuplicateFlag, "where", fs.Name))
			break
		}
	}
	if fd.Type() == UnknownFlagType {
		errs = append(errs, NewErr(ErrFlagTypeNotDiscoverable,
			"rule", "exactly one destination pointer must be non-nil"))
	}

	err = CombineErrs(errs)
	if err != nil {
		goto end
	}
	fs.FlagDefs = append(fs.FlagDefs, fd)
end:
	if err != nil {
		err = WithErr(err, dt.ErrFlagValidationFailed, "flag_name", fd.Name)
	}
	return err
}

// FlagNames returns the names of every declared flag.
func (fs *FlagSet) FlagNames() (names []string) {
	names = make([]string, len(fs.FlagDefs))
	for i := range fs.FlagDefs {
		names[i] = fs.FlagDefs[i].Name
	}
	return names
}

// Parse registers every FlagDef on a fresh stdlib flag set, parses
// args, validates the parsed values, and returns the remaining
// non-flag arguments.
func (fs *FlagSet) Parse(args []string) (rest []string, err error) {
	var errs []error
	var stdfs *flag.FlagSet
	var i int

	stdfs = flag.NewFlagSet(fs.Name, flag.ContinueOnError)
	stdfs.SetOutput(io.Discard)
	for i = range fs.FlagDefs {
		errs = AppendErr(errs, fs.FlagDefs[i].register(stdfs))
	}
	err = CombineErrs(errs)
	if err != nil {
		goto end
	}

	err = stdfs.Parse(args)
	if err != nil {
		goto end
	}
	rest = stdfs.Args()

	for i = range fs.FlagDefs {
		errs = AppendErr(errs, fs.FlagDefs[i].validate())
	}
	err = CombineErrs(errs)
end:
	if err != nil {
		err = WithErr(err, ErrFlagsParsingFailed, "flag_set", fs.Name)
	}
	return rest, err
}
