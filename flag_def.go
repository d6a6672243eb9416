package subdec

import (
	"errors"
	"flag"
	"regexp"
	"time"

	"github.com/mikeschinkel/go-dt"
)

// FlagType represents the value type of a declared flag
type FlagType int

const (
	UnknownFlagType FlagType = iota
	StringFlag
	BoolFlag
	IntFlag
	Int64Flag
	DurationFlag
)

// ValidationFunc validates a parsed flag value and returns an error if invalid
type ValidationFunc func(value any) error

// FlagDef defines a flag declaratively. Exactly one destination pointer
// must be non-nil; it selects the flag's type and receives the parsed
// value. Duration defaults may also be given in any string form
// dt.ParseTimeDurationEx understands.
type FlagDef struct {
	Name           string
	Shortcut       byte
	Default        any
	Usage          string
	Required       bool
	Regex          *regexp.Regexp
	ValidationFunc ValidationFunc
	String         *string
	Bool           *bool
	Int            *int
	Int64          *int64
	Duration       *time.Duration
	Example        string // OPTIONAL: sample value for example generation
}

func (fd *FlagDef) Type() (ft FlagType) {
	switch {
	case fd.String != nil:
		ft = StringFlag
	case fd.Bool != nil:
		ft = BoolFlag
	case fd.Int != nil:
		ft = IntFlag
	case fd.Int64 != nil:
		ft = Int64Flag
	case fd.Duration != nil:
		ft = DurationFlag
	default:
		ft = UnknownFlagType
	}
	return ft
}

// collidesWith reports whether two defs would register overlapping
// names on the stdlib flag set, which panics on redefinition. Both the
// Name and the Shortcut become stdlib flag names, so all four pairings
// count.
func (fd *FlagDef) collidesWith(other *FlagDef) bool {
	switch {
	case fd.Name == other.Name:
		return true
	case fd.Shortcut != 0 && fd.Shortcut == other.Shortcut:
		return true
	case fd.Shortcut != 0 && other.Name == string(fd.Shortcut):
		return true
	case other.Shortcut != 0 && fd.Name == string(other.Shortcut):
		return true
	}
	return false
}

// register declares the flag, plus its single-character shortcut when
// set, on a stdlib flag set, seeding the destination with the default.
func (fd *FlagDef) register(stdfs *flag.FlagSet) (err error) {
	var d time.Duration
	var names []string

	names = []string{fd.Name}
	if fd.Shortcut != 0 {
		names = append(names, string(fd.Shortcut))
	}
	switch fd.Type() {
	case StringFlag:
		for _, name := range names {
			stdfs.StringVar(fd.String, name, defaultAs(fd.Default, ""), fd.Usage)
		}
	case BoolFlag:
		for _, name := range names {
			stdfs.BoolVar(fd.Bool, name, defaultAs(fd.Default, false), fd.Usage)
		}
	case IntFlag:
		for _, name := range names {
			stdfs.IntVar(fd.Int, name, defaultAs(fd.Default, 0), fd.Usage)
		}
	case Int64Flag:
		for _, name := range names {
			stdfs.Int64Var(fd.Int64, name, defaultAs(fd.Default, int64(0)), fd.Usage)
		}
	case DurationFlag:
		d, err = fd.defaultDuration()
		if err != nil {
			goto end
		}
		for _, name := range names {
			stdfs.DurationVar(fd.Duration, name, d, fd.Usage)
		}
	case UnknownFlagType:
		err = NewErr(ErrFlagTypeNotDiscoverable,
			"rule", "exactly one destination pointer must be non-nil")
	}
end:
	if err != nil {
		err = WithErr(err, dt.ErrFlagValidationFailed, "flag_name", fd.Name)
	}
	return err
}

func (fd *FlagDef) defaultDuration() (d time.Duration, err error) {
	switch v := fd.Default.(type) {
	case nil:
	case time.Duration:
		d = v
	case string:
		d, err = dt.ParseTimeDurationEx(v)
		if err == nil {
			break
		}
		// ParseTimeDurationEx reports an error for plain Go duration
		// strings it nonetheless understands; the stdlib gets the
		// final say on its own formats.
		d, err = time.ParseDuration(v)
	default:
		err = NewErr(ErrFlagTypeNotDiscoverable,
			"rule", "duration defaults must be a time.Duration or string")
	}
	return d, err
}

// validate applies the declared validation rules to the parsed value.
func (fd *FlagDef) validate() (err error) {
	var value any
	var stringValue string
	var ok bool

	value = fd.value()

	// Check required
	if fd.Required && (value == nil || value == "") {
		err = NewErr(dt.ErrFlagIsRequired)
		goto end
	}

	// Skip further validation if value is empty and not required
	if value == nil || value == "" {
		goto end
	}

	// Regex validation (only for string values)
	if fd.Regex != nil {
		stringValue, ok = value.(string)
		if ok && !fd.Regex.MatchString(stringValue) {
			err = NewErr(dt.ErrInvalidFlagName, "flag_value", stringValue)
			goto end
		}
	}

	// Custom validation function
	if fd.ValidationFunc != nil {
		err = fd.ValidationFunc(value)
		if err != nil {
			goto end
		}
	}

end:
	if err != nil {
		err = WithErr(err, dt.ErrFlagValidationFailed, "flag_name", fd.Name)
	}
	return err
}

// value returns the parsed value behind the destination pointer.
func (fd *FlagDef) value() (value any) {
	switch fd.Type() {
	case StringFlag:
		value = *fd.String
	case BoolFlag:
		value = *fd.Bool
	case IntFlag:
		value = *fd.Int
	case Int64Flag:
		value = *fd.Int64
	case DurationFlag:
		value = *fd.Duration
	case UnknownFlagType:
		// Just here to have all flag types in the switch
	}
	return value
}

var ErrFlagTypeNotDiscoverable = errors.New("flag type is not discoverable")

func defaultAs[T any](def any, fallback T) T {
	v, ok := def.(T)
	if !ok {
		return fallback
	}
	return v
}
