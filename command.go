package subdec

import (
	"maps"
	"slices"
)

// KW holds keyword arguments for recorded parser calls. It is captured
// verbatim; no validation or coercion happens before replay.
type KW map[string]any

// CallRecord is one deferred parser operation. Immutable once recorded.
type CallRecord struct {
	MethodName string
	Args       []any
	Kwargs     KW
}

// ParserArgs are construction arguments for ParserGroup.AddParser.
type ParserArgs struct {
	Args   []any
	Kwargs KW
}

// Decorator mutates a command descriptor. Decorators never wrap or
// replace the handler function; they only attach configuration to it.
type Decorator func(*Command)

// Command is the per-handler descriptor: the handler itself, naming
// overrides, parser construction arguments and the accumulated call
// records. Exactly one Command exists per registered handler for the
// lifetime of its SubDec.
type Command struct {
	name       *string // explicit override; nil until set
	fnName     string
	fn         HandlerFunc
	callStack  []CallRecord
	parserArgs *ParserArgs
}

// Apply applies decorators with stacked-decorator semantics, meaning
// the last listed runs first, and returns the command for chaining.
func (c *Command) Apply(decorators ...Decorator) *Command {
	for i := len(decorators) - 1; i >= 0; i-- {
		decorators[i](c)
	}
	return c
}

// FuncName returns the handler's bare function name.
func (c *Command) FuncName() string {
	return c.fnName
}

// Handler returns the registered handler function.
func (c *Command) Handler() HandlerFunc {
	return c.fn
}

// CallStack returns a copy of the recorded calls, in recorded order.
func (c *Command) CallStack() []CallRecord {
	return slices.Clone(c.callStack)
}

// splitKwargs separates positional values from KW maps, preserving
// positional order. Multiple KW values merge, later keys winning.
func splitKwargs(args []any) (pos []any, kwargs KW) {
	var kw KW
	var ok bool

	for _, arg := range args {
		kw, ok = arg.(KW)
		if !ok {
			pos = append(pos, arg)
			continue
		}
		if kwargs == nil {
			kwargs = make(KW, len(kw))
		}
		maps.Copy(kwargs, kw)
	}
	return pos, kwargs
}
