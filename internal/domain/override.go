package domain

// ClearSentinel is the command-line value that forces an optional field back
// to its empty state, even when the config file sets it.
const ClearSentinel = "NONE"

type overrideState int

const (
	overrideUnset overrideState = iota
	overrideClear
	overrideSet
)

// Override is a per-invocation value for an optional field. The zero value
// leaves the field untouched.
type Override[T any] struct {
	state overrideState
	value T
}

// Unset returns an override that changes nothing.
func Unset[T any]() Override[T] {
	return Override[T]{}
}

// Clear returns an override that empties the field.
func Clear[T any]() Override[T] {
	return Override[T]{state: overrideClear}
}

// SetTo returns an override that replaces the field with v.
func SetTo[T any](v T) Override[T] {
	return Override[T]{state: overrideSet, value: v}
}

// ParseOverride converts a raw flag value into an Override. present reports
// whether the flag was given at all.
func ParseOverride(raw string, present bool) Override[string] {
	switch {
	case !present:
		return Unset[string]()
	case raw == ClearSentinel:
		return Clear[string]()
	default:
		return SetTo(raw)
	}
}

// IsUnset reports whether the override leaves the field untouched.
func (o Override[T]) IsUnset() bool { return o.state == overrideUnset }

// IsClear reports whether the override empties the field.
func (o Override[T]) IsClear() bool { return o.state == overrideClear }

// Value returns the replacement value and whether one is set.
func (o Override[T]) Value() (T, bool) {
	return o.value, o.state == overrideSet
}

// Apply returns the field value after the override. current is never
// modified; a set override yields a fresh pointer.
func (o Override[T]) Apply(current *T) *T {
	switch o.state {
	case overrideClear:
		return nil
	case overrideSet:
		v := o.value
		return &v
	default:
		return current
	}
}

// String renders the override for logs.
func (o Override[T]) String() string {
	switch o.state {
	case overrideClear:
		return ClearSentinel
	case overrideSet:
		return "set"
	default:
		return "unset"
	}
}
