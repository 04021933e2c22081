package backend

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sharkusmanch/pc/internal/domain"
)

// Policy is how a command-line override combines with the configured value.
type Policy string

const (
	// PolicyPlain replaces the configured value when the flag is given.
	PolicyPlain Policy = "plain"
	// PolicyNullable also accepts NONE, which clears the configured value.
	PolicyNullable Policy = "nullable"
	// PolicyDuration is PolicyNullable with a human-readable duration value.
	PolicyDuration Policy = "duration"
)

// FieldSpec describes one overridable backend field.
type FieldSpec struct {
	Name      string
	Short     string
	Policy    Policy
	ValueName string
	Usage     string
}

// overrides collects the flags a backend binds and the assignments to run
// once parsing succeeded.
type overrides struct {
	fs      *pflag.FlagSet
	fields  []FieldSpec
	applies []func()
}

func newOverrides(fs *pflag.FlagSet) *overrides {
	return &overrides{fs: fs}
}

func (o *overrides) add(spec FieldSpec, value pflag.Value, apply func()) {
	o.fs.VarP(value, spec.Name, spec.Short, spec.Usage)
	o.fields = append(o.fields, spec)
	o.applies = append(o.applies, apply)
}

func (o *overrides) apply() {
	for _, fn := range o.applies {
		fn()
	}
}

// plainValue is a pflag.Value recording whether it was set.
type plainValue[T any] struct {
	value T
	set   bool
	parse func(string) (T, error)
	name  string
}

func (v *plainValue[T]) Set(s string) error {
	parsed, err := v.parse(s)
	if err != nil {
		return err
	}
	v.value = parsed
	v.set = true
	return nil
}

func (v *plainValue[T]) String() string {
	if !v.set {
		return ""
	}
	return fmt.Sprint(v.value)
}

func (v *plainValue[T]) Type() string { return v.name }

// nullableValue is a pflag.Value that turns the NONE sentinel into a clear.
type nullableValue[T any] struct {
	override domain.Override[T]
	parse    func(string) (T, error)
	name     string
}

func (v *nullableValue[T]) Set(s string) error {
	if s == domain.ClearSentinel {
		v.override = domain.Clear[T]()
		return nil
	}
	parsed, err := v.parse(s)
	if err != nil {
		return err
	}
	v.override = domain.SetTo(parsed)
	return nil
}

func (v *nullableValue[T]) String() string {
	if value, ok := v.override.Value(); ok {
		return fmt.Sprint(value)
	}
	if v.override.IsClear() {
		return domain.ClearSentinel
	}
	return ""
}

func (v *nullableValue[T]) Type() string { return v.name }

func bindPlain[T any](o *overrides, dst *T, parse func(string) (T, error), spec FieldSpec) {
	spec.Policy = PolicyPlain
	v := &plainValue[T]{parse: parse, name: spec.ValueName}
	o.add(spec, v, func() {
		if v.set {
			*dst = v.value
		}
	})
}

func bindNullable[T any](o *overrides, dst **T, parse func(string) (T, error), spec FieldSpec) {
	if spec.Policy == "" {
		spec.Policy = PolicyNullable
	}
	spec.ValueName += "|" + domain.ClearSentinel
	v := &nullableValue[T]{parse: parse, name: spec.ValueName}
	o.add(spec, v, func() {
		*dst = v.override.Apply(*dst)
	})
}

func parseString(s string) (string, error) { return s, nil }

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}

func parseUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func (o *overrides) url(dst *URL, usage string) {
	bindPlain(o, dst, ParseURL, FieldSpec{Name: "url", Short: "u", ValueName: "url", Usage: usage})
}

func (o *overrides) str(dst *string, short, name, valueName, usage string) {
	bindPlain(o, dst, parseString, FieldSpec{Name: name, Short: short, ValueName: valueName, Usage: usage})
}

func (o *overrides) uint16Field(dst *uint16, short, name, valueName, usage string) {
	bindPlain(o, dst, parseUint16, FieldSpec{Name: name, Short: short, ValueName: valueName, Usage: usage})
}

func (o *overrides) uint64Field(dst *uint64, short, name, valueName, usage string) {
	bindPlain(o, dst, parseUint64, FieldSpec{Name: name, Short: short, ValueName: valueName, Usage: usage})
}

func (o *overrides) nullableString(dst **string, short, name, valueName, usage string) {
	bindNullable(o, dst, parseString, FieldSpec{Name: name, Short: short, ValueName: valueName, Usage: usage})
}

func (o *overrides) duration(dst **Duration, short, name, usage string) {
	bindNullable(o, dst, ParseDuration, FieldSpec{
		Name:      name,
		Short:     short,
		Policy:    PolicyDuration,
		ValueName: "duration",
		Usage:     usage,
	})
}

// parseOverrides parses args against the flags bound by bind and, on
// success, applies them. args[0] is the server name.
func parseOverrides(kind string, args []string, bind func(*overrides)) error {
	server := kind
	if len(args) > 0 {
		server, args = args[0], args[1:]
	}

	fs := pflag.NewFlagSet(server, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	o := newOverrides(fs)
	bind(o)
	help := fs.BoolP("help", "h", false, "print this help and the backend documentation")

	if err := fs.Parse(args); err != nil {
		return &domain.ArgError{Server: server, Err: err}
	}
	if *help {
		return &domain.HelpRequest{Usage: usage(server, kind, fs)}
	}
	if fs.NArg() > 0 {
		return &domain.ArgError{
			Server:  server,
			Message: fmt.Sprintf("unexpected argument %q", fs.Arg(0)),
		}
	}

	o.apply()
	return nil
}

func usage(server, kind string, fs *pflag.FlagSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s backend\n\n", kind)
	fmt.Fprintf(&b, "USAGE:\n    pc %s [OPTIONS]\n\n", server)
	fmt.Fprintf(&b, "OPTIONS:\n%s", fs.FlagUsages())
	return b.String()
}

// schemaOf records the fields bind registers, without parsing anything.
func schemaOf(bind func(*overrides)) []FieldSpec {
	o := newOverrides(pflag.NewFlagSet("schema", pflag.ContinueOnError))
	bind(o)
	return o.fields
}
