// Package subdec lets functions be declared as CLI subcommands at
// definition time and materialized later against an argument-parser
// group. Configuration is recorded as data, so any builder operation
// can be named before a parser for it exists, and replayed once the
// embedding program supplies a concrete ParserGroup.
package subdec

import (
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"unicode"
)

// HandlerFunc is the signature for subcommand handlers. The parsed
// namespace produced by the embedding parser is passed as ns; this
// package stores handlers but never calls them itself.
type HandlerFunc func(ns any) error

const (
	DefaultFnDest = "fn"
	DefaultSep    = "-"
)

// NoSep disables separator handling entirely: underscores and case
// boundaries in derived command names are left untouched.
var NoSep = ptr("_")

type Args struct {
	NamePrefix string       // Prefix stripped from derived command names
	FnDest     string       // Namespace key the handler is stored under; "" means DefaultFnDest
	Sep        *string      // Word separator in derived names; nil means DefaultSep, NoSep disables
	Logger     *slog.Logger // nil means slog.Default()
}

// SubDec collects deferred subcommand configuration and replays it
// against a ParserGroup. Create one per CLI; there is no implicit
// global instance.
type SubDec struct {
	namePrefix  string
	fnDest      string
	sep         string
	sepDisabled bool
	logger      *slog.Logger

	factoryCache map[string]OpFactory
	commands     []*Command
	commandIdx   map[uintptr]int
}

func New(args Args) *SubDec {
	sepDisabled := args.Sep == NoSep
	sep := valueOrDefault(args.Sep, DefaultSep)
	fnDest := args.FnDest
	if fnDest == "" {
		fnDest = DefaultFnDest
	}
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SubDec{
		namePrefix:   args.NamePrefix,
		fnDest:       fnDest,
		sep:          sep,
		sepDisabled:  sepDisabled,
		logger:       logger,
		factoryCache: make(map[string]OpFactory),
		commandIdx:   make(map[uintptr]int),
	}
}

// FnDest returns the namespace key handlers are stored under.
func (sd *SubDec) FnDest() string {
	return sd.fnDest
}

// Decorate registers fn, minting a descriptor on first use and reusing
// it afterward, then applies decorators the way stacked decorators apply:
// the last listed runs first. fn's call semantics are never touched;
// decorators only record configuration. The returned handle lets
// callers keep decorating handlers that lack a stable code pointer of
// their own (closures, method values).
func (sd *SubDec) Decorate(fn HandlerFunc, decorators ...Decorator) *Command {
	return sd.getCommand(fn).Apply(decorators...)
}

// OpFactory produces decorators that record a call to one named parser
// operation. Values of type KW among args are collected as keyword
// arguments; everything else is positional, in order.
type OpFactory func(args ...any) Decorator

// Op returns the decorator factory for the named parser operation. Any
// name is accepted here; whether the eventual parser supports it is
// only discovered during CreateParsers. Factories are cached so
// repeated lookups of one name yield the identical factory.
func (sd *SubDec) Op(name string) (factory OpFactory) {
	var ok bool

	factory, ok = sd.factoryCache[name]
	if ok {
		goto end
	}
	factory = func(args ...any) Decorator {
		pos, kwargs := splitKwargs(args)
		return func(cmd *Command) {
			cmd.callStack = append(cmd.callStack, CallRecord{
				MethodName: name,
				Args:       pos,
				Kwargs:     kwargs,
			})
		}
	}
	sd.factoryCache[name] = factory
end:
	return factory
}

// Cmd records arguments for the parser group's creation call. Unlike
// Op records, which accumulate, the last Cmd application on a command
// wins outright. Position relative to Op decorators does not matter.
func (sd *SubDec) Cmd(args ...any) Decorator {
	pos, kwargs := splitKwargs(args)
	return func(cmd *Command) {
		cmd.parserArgs = &ParserArgs{Args: pos, Kwargs: kwargs}
	}
}

// Named overrides the derived command name verbatim, empty string
// included. The last application wins.
func Named(name string) Decorator {
	return func(cmd *Command) {
		cmd.name = &name
	}
}

// CreateParsers materializes every registered command, in registration
// order, against group. Each parser gets the handler stored under the
// configured fn destination, then its recorded operations replayed in
// decoration order. Parsers created before a failing command stay
// attached to the group.
func (sd *SubDec) CreateParsers(group ParserGroup) (err error) {
	for _, cmd := range sd.commands {
		err = sd.createParser(cmd, group)
		if err != nil {
			goto end
		}
	}
end:
	return err
}

func (sd *SubDec) createParser(cmd *Command, group ParserGroup) (err error) {
	var name string
	var args []any
	var kwargs KW
	var parser Parser
	var rec CallRecord

	name = sd.commandName(cmd)
	args = []any{name}
	if cmd.parserArgs != nil {
		kwargs = cmd.parserArgs.Kwargs
		if len(cmd.parserArgs.Args) > 0 {
			args = cmd.parserArgs.Args
		}
	}
	parser, err = group.AddParser(args, kwargs)
	if err != nil {
		goto end
	}
	parser.SetDefault(sd.fnDest, cmd.fn)

	// Records accumulate in application order, which for stacked
	// decorators is the reverse of the listed order. Replaying back
	// to front restores decoration order.
	for i := len(cmd.callStack) - 1; i >= 0; i-- {
		rec = cmd.callStack[i]
		err = callOp(parser, rec)
		if err != nil {
			err = NewErr(err, "op", rec.MethodName)
			goto end
		}
	}
	sd.logger.Debug("Created subcommand parser",
		"command", name, "func_name", cmd.fnName, "op_count", len(cmd.callStack))
end:
	if err != nil {
		err = WithErr(err, ErrCreateParserFailed,
			"command", name, "func_name", cmd.fnName)
	}
	return err
}

// commandName resolves a command's effective name: an explicit name is
// used verbatim, otherwise the handler's own function name is derived
// from: configured prefix stripped, then word boundaries (underscores
// and lower-to-upper case changes) joined with the separator.
func (sd *SubDec) commandName(cmd *Command) (name string) {
	if cmd.name != nil {
		name = *cmd.name
		goto end
	}
	name = strings.TrimPrefix(cmd.fnName, sd.namePrefix)
	if !sd.sepDisabled {
		name = separateWords(name, sd.sep)
	}
end:
	return name
}

func (sd *SubDec) getCommand(fn HandlerFunc) (cmd *Command) {
	var key uintptr
	var idx int
	var ok bool

	key = reflect.ValueOf(fn).Pointer()
	idx, ok = sd.commandIdx[key]
	if ok {
		cmd = sd.commands[idx]
		goto end
	}
	cmd = &Command{fn: fn, fnName: funcName(fn)}
	sd.commandIdx[key] = len(sd.commands)
	sd.commands = append(sd.commands, cmd)
	sd.logger.Debug("Registered subcommand handler", "func_name", cmd.fnName)
end:
	return cmd
}

// funcName extracts fn's bare name from its runtime symbol, e.g.
// "github.com/acme/tool.syncRepos" yields "syncRepos". Closures come
// back as "func1"-style names; give those an explicit Named override.
func funcName(fn HandlerFunc) (name string) {
	var rf *runtime.Func

	rf = runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		goto end
	}
	name = rf.Name()
	name = name[strings.LastIndexByte(name, '.')+1:]
	name = strings.TrimSuffix(name, "-fm")
end:
	return name
}

// separateWords rewrites name with sep at word boundaries: every
// underscore becomes sep, and an upper-case rune following a lower-case
// rune or digit is lowered with sep inserted before it. An empty sep
// therefore collapses the boundaries away.
func separateWords(name string, sep string) string {
	var sb strings.Builder
	var prev rune

	for i, r := range name {
		switch {
		case r == '_':
			sb.WriteString(sep)
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				sb.WriteString(sep)
			}
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
		prev = r
	}
	return sb.String()
}
