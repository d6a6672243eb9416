package subdec

import (
	"maps"
	"regexp"
	"strings"
	"time"
)

var _ Parser = (*ArgParser)(nil)
var _ OpCaller = (*ArgParser)(nil)

// ArgParser is the bundled per-subcommand parser builder. It accepts
// argparse-style operations ("add_argument", "set_defaults" and
// "description") through OpCaller and delegates actual flag parsing
// to FlagSet. In parsed namespaces flag and argument names appear with
// dashes rewritten to underscores.
type ArgParser struct {
	name        string
	description string
	flagSet     *FlagSet
	argDefs     []*ArgDef
	defaults    KW
}

func newArgParser(name string) *ArgParser {
	return &ArgParser{
		name:     name,
		flagSet:  &FlagSet{Name: name},
		defaults: make(KW),
	}
}

// Name returns the subcommand name this parser was created under.
func (p *ArgParser) Name() string {
	return p.name
}

// Description returns the parser description, when one was set.
func (p *ArgParser) Description() string {
	return p.description
}

// SetDefault stores a default value in the eventual parsed namespace,
// under name verbatim. This is how the materializer stashes the
// handler function.
func (p *ArgParser) SetDefault(name string, value any) {
	p.defaults[name] = value
}

// CallOp dispatches one named configuration operation.
func (p *ArgParser) CallOp(name string, args []any, kwargs KW) (err error) {
	switch name {
	case "add_argument":
		err = p.addArgument(args, kwargs)
	case "set_defaults":
		maps.Copy(p.defaults, kwargs)
	case "description":
		err = p.setDescription(args)
	default:
		err = NewErr(ErrUnknownOperation, "parser", p.name)
	}
	return err
}

// addArgument declares a flag (names with a dash prefix) or a
// positional argument (bare name). Recognized kwargs: "default",
// "usage" (alias "help"), "type" (string|bool|int|int64|duration),
// "required", "regex", and "example".
func (p *ArgParser) addArgument(args []any, kwargs KW) (err error) {
	var names []string
	var name string

	names, err = opStrings(args)
	if err != nil {
		goto end
	}
	if len(names) == 0 {
		err = NewErr(ErrInvalidOpArgs, "rule", "at least one argument name required")
		goto end
	}

	if strings.HasPrefix(names[0], "-") {
		err = p.addFlag(names, kwargs)
		goto end
	}
	if len(names) > 1 {
		err = NewErr(ErrInvalidOpArgs, "rule", "positional arguments take a single name")
		goto end
	}
	name = names[0]
	p.argDefs = append(p.argDefs, &ArgDef{
		Name:     name,
		Usage:    kwString(kwargs, "usage", kwString(kwargs, "help", "")),
		Required: kwBool(kwargs, "required"),
		Default:  kwargs["default"],
		String:   new(string),
		Example:  kwString(kwargs, "example", ""),
	})
end:
	if err != nil {
		err = NewErr(err, "op", "add_argument")
	}
	return err
}

func (p *ArgParser) addFlag(names []string, kwargs KW) (err error) {
	var fd FlagDef
	var pattern string
	var trimmed string

	for _, name := range names {
		trimmed = strings.TrimLeft(name, "-")
		if strings.HasPrefix(name, "--") || len(trimmed) > 1 {
			fd.Name = trimmed
			continue
		}
		if len(trimmed) == 1 {
			fd.Shortcut = trimmed[0]
		}
	}
	if fd.Name == "" && fd.Shortcut != 0 {
		fd.Name = string(fd.Shortcut)
		fd.Shortcut = 0
	}

	fd.Usage = kwString(kwargs, "usage", kwString(kwargs, "help", ""))
	fd.Required = kwBool(kwargs, "required")
	fd.Default = kwargs["default"]
	fd.Example = kwString(kwargs, "example", "")

	pattern = kwString(kwargs, "regex", "")
	if pattern != "" {
		fd.Regex, err = regexp.Compile(pattern)
		if err != nil {
			goto end
		}
	}

	switch kwString(kwargs, "type", "string") {
	case "string":
		fd.String = new(string)
	case "bool":
		fd.Bool = new(bool)
	case "int":
		fd.Int = new(int)
	case "int64":
		fd.Int64 = new(int64)
	case "duration":
		fd.Duration = new(time.Duration)
	default:
		err = NewErr(ErrInvalidOpArgs,
			"kwarg", "type", "rule", "one of string, bool, int, int64, duration")
		goto end
	}

	err = p.flagSet.AddFlagDef(fd)
end:
	return err
}

func (p *ArgParser) setDescription(args []any) (err error) {
	var strs []string

	strs, err = opStrings(args)
	if err != nil {
		goto end
	}
	if len(strs) != 1 {
		err = NewErr(ErrInvalidOpArgs, "rule", "description takes a single string")
		goto end
	}
	p.description = strs[0]
end:
	if err != nil {
		err = NewErr(err, "op", "description")
	}
	return err
}

// parse runs args through the flag set, assigns positionals, and
// overlays flag and argument values on the stored defaults.
func (p *ArgParser) parse(args []string) (ns *Namespace, err error) {
	var rest []string
	var values map[string]any
	var fd *FlagDef
	var i int

	rest, err = p.flagSet.Parse(args)
	if err != nil {
		goto end
	}

	values = make(map[string]any, len(p.defaults)+len(p.flagSet.FlagDefs)+len(p.argDefs))
	maps.Copy(values, p.defaults)
	for i = range p.flagSet.FlagDefs {
		fd = &p.flagSet.FlagDefs[i]
		values[underscored(fd.Name)] = fd.value()
	}

	err = p.assignArgs(rest, values)
	if err != nil {
		goto end
	}
	ns = &Namespace{Command: p.name, values: values}
end:
	return ns, err
}

// assignArgs assigns remaining command-line words to the declared
// positional arguments, falling back to defaults for absent optionals.
// Words beyond the declared arguments are an error, as are missing
// required ones.
func (p *ArgParser) assignArgs(args []string, values map[string]any) (err error) {
	var errs []error
	var requiredCount int
	var ad *ArgDef
	var i int

	for _, ad = range p.argDefs {
		if ad.Required {
			requiredCount++
		}
	}
	if len(args) < requiredCount {
		err = NewErr(ErrAssigningArgsFailed,
			"want_at_least", requiredCount, "got", len(args))
		goto end
	}
	if len(args) > len(p.argDefs) {
		err = NewErr(ErrAssigningArgsFailed,
			"unrecognized_args", strings.Join(args[len(p.argDefs):], " "))
		goto end
	}

	for i, ad = range p.argDefs {
		if i >= len(args) {
			if ad.Required {
				errs = append(errs, NewErr(ErrAssigningArgsFailed,
					"missing_argument", ad.Name))
				continue
			}
			values[underscored(ad.Name)] = ad.Default
			continue
		}
		if ad.String != nil {
			*ad.String = args[i]
		}
		values[underscored(ad.Name)] = args[i]
	}
	err = CombineErrs(errs)
end:
	return err
}

// underscored rewrites dashes to underscores for namespace keys.
func underscored(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// opStrings asserts that every positional operation argument is a string.
func opStrings(args []any) (strs []string, err error) {
	var s string
	var ok bool

	for i, arg := range args {
		s, ok = arg.(string)
		if !ok {
			err = NewErr(ErrInvalidOpArgs, "arg_index", i,
				"rule", "arguments must be strings")
			goto end
		}
		strs = append(strs, s)
	}
end:
	return strs, err
}

func kwString(kwargs KW, key string, fallback string) string {
	s, ok := kwargs[key].(string)
	if !ok {
		return fallback
	}
	return s
}

func kwBool(kwargs KW, key string) bool {
	b, _ := kwargs[key].(bool)
	return b
}
