package subdec_test

import (
	"errors"
	"reflect"
	"testing"

	subdec "github.com/mikeschinkel/go-subdec"
)

// fakeGroup records parser creation so tests can inspect exactly what
// materialization did, independent of any real argument parsing.
type fakeGroup struct {
	parsers []*fakeParser
}

func (g *fakeGroup) AddParser(args []any, kwargs subdec.KW) (subdec.Parser, error) {
	p := &fakeParser{
		args:     args,
		kwargs:   kwargs,
		defaults: make(map[string]any),
	}
	g.parsers = append(g.parsers, p)
	return p, nil
}

type recordedCall struct {
	op     string
	args   []any
	kwargs subdec.KW
}

type fakeParser struct {
	args     []any
	kwargs   subdec.KW
	defaults map[string]any
	calls    []recordedCall
	failOps  map[string]error
}

func (p *fakeParser) SetDefault(name string, value any) {
	p.defaults[name] = value
}

func (p *fakeParser) CallOp(name string, args []any, kwargs subdec.KW) error {
	if err, ok := p.failOps[name]; ok {
		return err
	}
	p.calls = append(p.calls, recordedCall{op: name, args: args, kwargs: kwargs})
	return nil
}

func (p *fakeParser) name(t *testing.T) string {
	t.Helper()
	if len(p.args) == 0 {
		t.Fatal("parser created without construction args")
	}
	name, ok := p.args[0].(string)
	if !ok {
		t.Fatalf("parser name is %T, want string", p.args[0])
	}
	return name
}

func sameHandler(a, b subdec.HandlerFunc) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Handlers named for derivation tests; underscores are intentional.
func foo_bar(ns any) error { return nil }
func two_words(ns any) error { return nil }
func cmdBuild(ns any) error { return nil }
func cmd_deploy(ns any) error { return nil }
func syncRemotes(ns any) error { return nil }
func original_name(ns any) error { return nil }

func okHandler(ns any) error { return nil }

func materialize(t *testing.T, sd *subdec.SubDec) *fakeGroup {
	t.Helper()
	group := &fakeGroup{}
	err := sd.CreateParsers(group)
	if err != nil {
		t.Fatalf("CreateParsers() failed: %v", err)
	}
	return group
}

func TestDerivedNames(t *testing.T) {
	tests := []struct {
		name string
		args subdec.Args
		fn   subdec.HandlerFunc
		want string
	}{
		{"underscores become hyphens", subdec.Args{}, foo_bar, "foo-bar"},
		{"camel case becomes hyphens", subdec.Args{}, syncRemotes, "sync-remotes"},
		{"prefix is stripped", subdec.Args{NamePrefix: "cmd"}, cmdBuild, "build"},
		{"underscored prefix is stripped", subdec.Args{NamePrefix: "cmd_"}, cmd_deploy, "deploy"},
		{"custom separator", subdec.Args{Sep: ptr(".")}, foo_bar, "foo.bar"},
		{"empty separator collapses words", subdec.Args{Sep: ptr("")}, foo_bar, "foobar"},
		{"NoSep leaves name untouched", subdec.Args{Sep: subdec.NoSep}, two_words, "two_words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := subdec.New(tt.args)
			sd.Decorate(tt.fn)
			group := materialize(t, sd)
			if len(group.parsers) != 1 {
				t.Fatalf("got %d parsers, want 1", len(group.parsers))
			}
			if got := group.parsers[0].name(t); got != tt.want {
				t.Errorf("derived name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplayUsesDecorationOrder(t *testing.T) {
	sd := subdec.New(subdec.Args{})

	// Stacked decorators: listed A, B, C means C applies first, yet
	// replay must run A, B, C.
	sd.Decorate(okHandler,
		sd.Op("op_a")(1),
		sd.Op("op_b")(2),
		sd.Op("op_c")(3),
	)

	group := materialize(t, sd)
	p := group.parsers[0]
	var got []string
	for _, call := range p.calls {
		got = append(got, call.op)
	}
	want := []string{"op_a", "op_b", "op_c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("replay order = %v, want %v", got, want)
	}
}

func TestCallStackAccumulatesAcrossDecorateCalls(t *testing.T) {
	sd := subdec.New(subdec.Args{})

	cmd := sd.Decorate(okHandler, sd.Op("first")())
	again := sd.Decorate(okHandler, sd.Op("second")())
	if cmd != again {
		t.Fatal("Decorate minted a second descriptor for the same function")
	}
	if got := len(cmd.CallStack()); got != 2 {
		t.Errorf("call stack length = %d, want 2", got)
	}
}

func TestCmdLastApplicationWins(t *testing.T) {
	sd := subdec.New(subdec.Args{})

	// Apply order is bottom-up, so the top-listed Cmd runs last and wins.
	sd.Decorate(okHandler,
		sd.Cmd("final-name", subdec.KW{"description": "kept"}),
		sd.Op("add_argument")("--opt"),
		sd.Cmd("overridden-name"),
	)

	group := materialize(t, sd)
	p := group.parsers[0]
	if got := p.name(t); got != "final-name" {
		t.Errorf("parser name = %q, want %q", got, "final-name")
	}
	if got := p.kwargs["description"]; got != "kept" {
		t.Errorf("construction kwarg description = %v, want %q", got, "kept")
	}
	if got := len(p.calls); got != 1 {
		t.Errorf("call count = %d, want 1 (Cmd must not disturb the call stack)", got)
	}
}

func TestCmdWithoutPositionalsSubstitutesDerivedName(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar, sd.Cmd(subdec.KW{"description": "docs"}))

	group := materialize(t, sd)
	p := group.parsers[0]
	if got := p.name(t); got != "foo-bar" {
		t.Errorf("parser name = %q, want %q", got, "foo-bar")
	}
	if got := p.kwargs["description"]; got != "docs" {
		t.Errorf("construction kwarg description = %v, want %q", got, "docs")
	}
}

func TestNamedOverride(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(original_name, subdec.Named("changed-name"))

	group := materialize(t, sd)
	if got := group.parsers[0].name(t); got != "changed-name" {
		t.Errorf("parser name = %q, want %q", got, "changed-name")
	}
}

func TestNamedEmptyStringIsVerbatim(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar, subdec.Named(""))

	group := materialize(t, sd)
	if got := group.parsers[0].name(t); got != "" {
		t.Errorf("parser name = %q, want empty string used verbatim", got)
	}
}

func TestHandlerStoredUnderFnDest(t *testing.T) {
	sd := subdec.New(subdec.Args{FnDest: "handler"})
	sd.Decorate(original_name, sd.Cmd("changed-name"), sd.Op("add_argument")("--option"))

	group := materialize(t, sd)
	p := group.parsers[0]
	fn, ok := p.defaults["handler"].(subdec.HandlerFunc)
	if !ok {
		t.Fatalf("default under %q is %T, want HandlerFunc", "handler", p.defaults["handler"])
	}
	if !sameHandler(fn, original_name) {
		t.Error("stored handler is not the decorated function")
	}
}

func TestDistinctFunctionsWithSameDerivedName(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar, subdec.Named("same"))
	sd.Decorate(two_words, subdec.Named("same"))

	group := materialize(t, sd)
	if len(group.parsers) != 2 {
		t.Fatalf("got %d parsers, want 2 (registry keys on identity, not name)", len(group.parsers))
	}
}

func TestRegistrationOrderIsPreserved(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar)
	sd.Decorate(two_words)
	sd.Decorate(syncRemotes)

	group := materialize(t, sd)
	var got []string
	for _, p := range group.parsers {
		got = append(got, p.name(t))
	}
	want := []string{"foo-bar", "two-words", "sync-remotes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("materialization order = %v, want %v", got, want)
	}
}

func TestMaterializationIsRepeatable(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar, sd.Op("add_argument")("--option", subdec.KW{"default": "123"}))

	first := materialize(t, sd)
	second := materialize(t, sd)

	if len(first.parsers) != len(second.parsers) {
		t.Fatalf("parser counts differ: %d vs %d", len(first.parsers), len(second.parsers))
	}
	for i := range first.parsers {
		a, b := first.parsers[i], second.parsers[i]
		if a.name(t) != b.name(t) {
			t.Errorf("parser %d names differ: %q vs %q", i, a.name(t), b.name(t))
		}
		if !reflect.DeepEqual(a.calls, b.calls) {
			t.Errorf("parser %d replayed calls differ", i)
		}
	}
}

func TestUnsupportedOperationFailsMaterialization(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar, sd.Op("add_argument")("--ok"))
	sd.Decorate(two_words, sd.Op("no_such_op")())

	group := &failingGroup{failOp: "no_such_op"}
	err := sd.CreateParsers(group)
	if err == nil {
		t.Fatal("CreateParsers() succeeded, want unsupported-operation failure")
	}
	if !errors.Is(err, subdec.ErrUnknownOperation) {
		t.Errorf("error %v does not match ErrUnknownOperation", err)
	}
	if !errors.Is(err, subdec.ErrCreateParserFailed) {
		t.Errorf("error %v does not match ErrCreateParserFailed", err)
	}

	// Already-materialized siblings stay attached.
	if len(group.parsers) != 2 {
		t.Fatalf("got %d parsers, want 2 (first command plus the failing one)", len(group.parsers))
	}
	if got := len(group.parsers[0].calls); got != 1 {
		t.Errorf("first parser has %d calls, want its full configuration", got)
	}
}

type failingGroup struct {
	fakeGroup
	failOp string
}

func (g *failingGroup) AddParser(args []any, kwargs subdec.KW) (subdec.Parser, error) {
	p, err := g.fakeGroup.AddParser(args, kwargs)
	if err != nil {
		return nil, err
	}
	fp := p.(*fakeParser)
	fp.failOps = map[string]error{g.failOp: subdec.ErrUnknownOperation}
	return fp, nil
}

func TestGroupCreationErrorPropagates(t *testing.T) {
	sd := subdec.New(subdec.Args{})
	sd.Decorate(foo_bar)

	wantErr := errors.New("duplicate command name")
	err := sd.CreateParsers(&erroringGroup{err: wantErr})
	if err == nil {
		t.Fatal("CreateParsers() succeeded, want group error to propagate")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error %v does not wrap the group's own error", err)
	}
}

type erroringGroup struct {
	err error
}

func (g *erroringGroup) AddParser(args []any, kwargs subdec.KW) (subdec.Parser, error) {
	return nil, g.err
}

func ptr[T any](v T) *T {
	return &v
}
