package subdec

import (
	"time"

	"github.com/mikeschinkel/go-dt/dtx"
)

// Namespace is the parsed-argument result for one subcommand: defaults
// overlaid with parsed flag and positional values. Keys use underscores
// where the declared names used dashes.
type Namespace struct {
	Command string
	values  map[string]any
}

// Get returns the raw value stored under name.
func (ns *Namespace) Get(name string) (value any, ok bool) {
	value, ok = ns.values[name]
	return value, ok
}

func (ns *Namespace) String(name string) string {
	return nsValue[string](ns, name)
}

func (ns *Namespace) Bool(name string) bool {
	return nsValue[bool](ns, name)
}

func (ns *Namespace) Int(name string) int {
	return nsValue[int](ns, name)
}

func (ns *Namespace) Int64(name string) int64 {
	return nsValue[int64](ns, name)
}

func (ns *Namespace) Duration(name string) time.Duration {
	return nsValue[time.Duration](ns, name)
}

// Handler returns the subcommand handler stashed under fnDest by
// materialization.
func (ns *Namespace) Handler(fnDest string) (fn HandlerFunc, err error) {
	var value any
	var ok bool

	value, ok = ns.values[fnDest]
	if !ok {
		err = NewErr(ErrNoHandler, "fn_dest", fnDest, "command", ns.Command)
		goto end
	}
	fn, err = dtx.AssertType[HandlerFunc](value)
end:
	return fn, err
}

// nsValue returns the value stored under name when it has type T, the
// zero value otherwise.
func nsValue[T any](ns *Namespace, name string) T {
	var zero T

	value, ok := ns.values[name]
	if !ok {
		return zero
	}
	t, ok := value.(T)
	if !ok {
		return zero
	}
	return t
}
