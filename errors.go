package subdec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCreateParserFailed  = errors.New("creating subcommand parser failed")
	ErrUnknownOperation    = errors.New("parser does not support operation")
	ErrKwargsNotSupported  = errors.New("operation does not accept keyword arguments")
	ErrWrongArgCount       = errors.New("wrong argument count for operation")
	ErrArgNotAssignable    = errors.New("argument not assignable to operation parameter")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrNoHandler           = errors.New("no handler stored in namespace")
	ErrFlagsParsingFailed  = errors.New("flags parsing failed")
	ErrAssigningArgsFailed = errors.New("assigning args failed")
	ErrDuplicateParser     = errors.New("duplicate parser name")
	ErrInvalidOpArgs       = errors.New("invalid operation arguments")
)

// NewErr wraps err with context: error values among args are joined in,
// and the rest are taken as key/value pairs appended to the message.
// Every wrapped error stays matchable with errors.Is.
func NewErr(err error, args ...any) error {
	return newKVErr([]error{err}, args)
}

// WithErr layers the sentinel wrap on top of err, plus key/value
// context, keeping both matchable with errors.Is.
func WithErr(err error, wrap error, args ...any) error {
	return newKVErr([]error{wrap, err}, args)
}

// AppendErr appends err to errs when non-nil.
func AppendErr(errs []error, err error) []error {
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}

// CombineErrs joins accumulated errors into one, or nil when none.
func CombineErrs(errs []error) error {
	return errors.Join(errs...)
}

func newKVErr(errs []error, args []any) error {
	var e kvError
	var i int
	var err error
	var ok bool

	for _, candidate := range errs {
		if candidate != nil {
			e.errs = append(e.errs, candidate)
		}
	}
	for i < len(args) {
		err, ok = args[i].(error)
		if ok {
			if err != nil {
				e.errs = append(e.errs, err)
			}
			i++
			continue
		}
		if i+1 < len(args) {
			e.kvs = append(e.kvs, fmt.Sprintf("%v=%v", args[i], args[i+1]))
			i += 2
			continue
		}
		e.kvs = append(e.kvs, fmt.Sprintf("%v", args[i]))
		i++
	}
	return &e
}

type kvError struct {
	errs []error
	kvs  []string
}

func (e *kvError) Error() string {
	var parts []string
	var msg string

	for _, err := range e.errs {
		parts = append(parts, err.Error())
	}
	msg = strings.Join(parts, ": ")
	if len(e.kvs) > 0 {
		msg += " [" + strings.Join(e.kvs, " ") + "]"
	}
	return msg
}

func (e *kvError) Unwrap() []error {
	return e.errs
}
