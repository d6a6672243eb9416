package subdec

import (
	"github.com/mikeschinkel/go-dt"
)

var _ ParserGroup = (*Group)(nil)

// Group is the bundled ParserGroup. It owns one ArgParser per
// subcommand, in creation order, and dispatches a command line to the
// parser named by its first argument.
type Group struct {
	parsers []*ArgParser
	byName  map[string]*ArgParser
}

func NewGroup() *Group {
	return &Group{
		byName: make(map[string]*ArgParser),
	}
}

// AddParser creates a named ArgParser. The single positional
// construction argument is the subcommand name; the "description"
// kwarg is recognized. Duplicate names are rejected.
func (g *Group) AddParser(args []any, kwargs KW) (parser Parser, err error) {
	var name string
	var ok bool
	var ap *ArgParser

	if len(args) != 1 {
		err = NewErr(ErrInvalidOpArgs,
			"rule", "AddParser takes exactly one positional argument, the parser name")
		goto end
	}
	name, ok = args[0].(string)
	if !ok {
		err = NewErr(ErrInvalidOpArgs, "rule", "parser name must be a string")
		goto end
	}
	if name == "" {
		err = NewErr(dt.ErrEmpty, "empty_arg", "parser name")
		goto end
	}
	_, ok = g.byName[name]
	if ok {
		err = NewErr(ErrDuplicateParser, "parser_name", name)
		goto end
	}

	ap = newArgParser(name)
	ap.description = kwString(kwargs, "description", "")
	g.parsers = append(g.parsers, ap)
	g.byName[name] = ap
	parser = ap
end:
	return parser, err
}

// Parsers returns the group's parsers in creation order.
func (g *Group) Parsers() []*ArgParser {
	return g.parsers
}

// Parse dispatches the command line to the parser named by args[0] and
// returns its parsed namespace.
func (g *Group) Parse(args []string) (ns *Namespace, err error) {
	var name string
	var parser *ArgParser
	var ok bool

	if len(args) == 0 {
		err = NewErr(ErrUnknownCommand, "reason", "no command given")
		goto end
	}
	name = args[0]
	parser, ok = g.byName[name]
	if !ok {
		err = NewErr(ErrUnknownCommand, "command", name)
		goto end
	}
	ns, err = parser.parse(args[1:])
end:
	return ns, err
}
