package backend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Duration is a length of time written in a human-readable form in the
// config file and on the command line, e.g. "3600s", "1day", "2h 30min".
type Duration struct {
	value time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) Duration {
	return Duration{value: d}
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return d.value
}

// String returns the duration in Go notation.
func (d Duration) String() string {
	return d.value.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond, "nsec": time.Nanosecond,
	"us": time.Microsecond, "usec": time.Microsecond,
	"ms": time.Millisecond, "msec": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	"M": 2630016 * time.Second, "month": 2630016 * time.Second, "months": 2630016 * time.Second,
	"y": 31557600 * time.Second, "year": 31557600 * time.Second, "years": 31557600 * time.Second,
}

// ParseDuration parses a duration. It accepts bare integers as seconds, Go
// duration strings, and sequences of <integer><unit> pairs optionally
// separated by spaces ("1day", "1 week 2 days", "90min").
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, fmt.Errorf("invalid duration: empty value")
	}

	if secs, err := strconv.ParseUint(s, 10, 32); err == nil {
		return NewDuration(time.Duration(secs) * time.Second), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: must not be negative", s)
		}
		return NewDuration(d), nil
	}

	var total time.Duration
	rest := s
	for rest != "" {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

		i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if i == 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: expected number at %q", s, rest)
		}
		if i < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: missing unit after %q", s, rest)
		}
		n, err := strconv.ParseUint(rest[:i], 10, 32)
		if err != nil {
			return Duration{}, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)

		j := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if j < 0 {
			j = len(rest)
		}
		unit, ok := durationUnits[rest[:j]]
		if !ok {
			return Duration{}, fmt.Errorf("invalid duration %q: unknown unit %q", s, rest[:j])
		}
		if n > uint64(math.MaxInt64/unit) {
			return Duration{}, fmt.Errorf("invalid duration %q: value too large", s)
		}
		step := time.Duration(n) * unit
		if total > math.MaxInt64-step {
			return Duration{}, fmt.Errorf("invalid duration %q: value too large", s)
		}
		total += step
		rest = rest[j:]
	}

	return NewDuration(total), nil
}
