package subdec

import (
	"reflect"
	"strings"
	"unicode"
)

var (
	kwType  = reflect.TypeOf(KW(nil))
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// callOp dispatches one recorded operation against a parser. Parsers
// implementing OpCaller get the record verbatim; otherwise the
// operation name is mapped to an exported method name and invoked by
// reflection. Either way an operation the parser does not support is a
// fatal ErrUnknownOperation.
func callOp(parser Parser, rec CallRecord) (err error) {
	var caller OpCaller
	var method reflect.Value
	var ok bool

	caller, ok = parser.(OpCaller)
	if ok {
		err = caller.CallOp(rec.MethodName, rec.Args, rec.Kwargs)
		goto end
	}
	method = reflect.ValueOf(parser).MethodByName(exportedOpName(rec.MethodName))
	if !method.IsValid() {
		err = NewErr(ErrUnknownOperation,
			"parser_type", reflect.TypeOf(parser).String())
		goto end
	}
	err = reflectCall(method, rec.Args, rec.Kwargs)
end:
	return err
}

// exportedOpName maps an operation name to the exported Go method name
// it addresses: "add_argument" becomes "AddArgument". Names that are
// already exported-looking come through unchanged.
func exportedOpName(name string) string {
	var sb strings.Builder
	var upper bool

	upper = true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// reflectCall invokes method with the recorded positional arguments.
// Keyword arguments require the method to declare a trailing KW
// parameter; recording kwargs for a method without one is an
// unsupported operation. A trailing error result propagates.
func reflectCall(method reflect.Value, args []any, kwargs KW) (err error) {
	var mt reflect.Type
	var in []reflect.Value
	var out []reflect.Value
	var arg reflect.Value
	var wantsKW bool
	var numPos int
	var i int

	mt = method.Type()
	numPos = mt.NumIn()
	wantsKW = !mt.IsVariadic() && numPos > 0 && mt.In(numPos-1) == kwType
	if wantsKW {
		numPos--
	}
	if len(kwargs) > 0 && !wantsKW {
		err = NewErr(ErrKwargsNotSupported)
		goto end
	}
	if mt.IsVariadic() {
		if len(args) < numPos-1 {
			err = NewErr(ErrWrongArgCount, "want_at_least", numPos-1, "got", len(args))
			goto end
		}
	} else if len(args) != numPos {
		err = NewErr(ErrWrongArgCount, "want", numPos, "got", len(args))
		goto end
	}

	in = make([]reflect.Value, 0, len(args)+1)
	for i = range args {
		arg, err = convertArg(args[i], paramType(mt, i))
		if err != nil {
			err = NewErr(err, "arg_index", i)
			goto end
		}
		in = append(in, arg)
	}
	if wantsKW {
		in = append(in, reflect.ValueOf(kwargs))
	}

	out = method.Call(in)
	if n := mt.NumOut(); n > 0 && mt.Out(n-1) == errType {
		err, _ = out[n-1].Interface().(error)
	}
end:
	return err
}

// paramType resolves the declared type of positional parameter i,
// unrolling a variadic tail to its element type.
func paramType(mt reflect.Type, i int) reflect.Type {
	if mt.IsVariadic() && i >= mt.NumIn()-1 {
		return mt.In(mt.NumIn() - 1).Elem()
	}
	return mt.In(i)
}

// convertArg adapts one recorded value to a parameter type. Assignable
// values pass through; other convertible values convert, except to
// string, where Go's numeric-to-string conversion would silently
// produce a rune.
func convertArg(value any, t reflect.Type) (v reflect.Value, err error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface,
			reflect.Map, reflect.Pointer, reflect.Slice:
			v = reflect.Zero(t)
		default:
			err = NewErr(ErrArgNotAssignable, "arg", "nil", "param_type", t.String())
		}
		goto end
	}
	v = reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		goto end
	}
	if v.Type().ConvertibleTo(t) && t.Kind() != reflect.String {
		v = v.Convert(t)
		goto end
	}
	err = NewErr(ErrArgNotAssignable,
		"arg_type", v.Type().String(), "param_type", t.String())
end:
	return v, err
}
