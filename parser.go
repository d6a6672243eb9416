package subdec

// ParserGroup is the external object that registers named subcommand
// parsers. AddParser mirrors an argparse-style creation call: args are
// positional construction arguments, conventionally the subcommand
// name first, and kwargs are creation options. Errors from the group's
// own validation (duplicate names and the like) propagate unchanged.
type ParserGroup interface {
	AddParser(args []any, kwargs KW) (Parser, error)
}

// Parser is the per-subcommand builder returned by a ParserGroup. The
// one required operation stores a default value in the eventual parsed
// namespace; everything else is addressed by name through recorded
// operations.
type Parser interface {
	SetDefault(name string, value any)
}

// OpCaller is implemented by parsers that accept open-ended
// configuration operations by name. A parser that does not implement
// OpCaller has its operations resolved by reflection against its
// exported methods instead; see callOp.
type OpCaller interface {
	CallOp(name string, args []any, kwargs KW) error
}
