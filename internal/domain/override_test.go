package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		present   bool
		wantUnset bool
		wantClear bool
		wantValue string
	}{
		{"absent", "", false, true, false, ""},
		{"absent ignores raw", "NONE", false, true, false, ""},
		{"sentinel", "NONE", true, false, true, ""},
		{"value", "termbin", true, false, false, "termbin"},
		{"lowercase none is a value", "none", true, false, false, "none"},
		{"empty value", "", true, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ParseOverride(tt.raw, tt.present)
			assert.Equal(t, tt.wantUnset, o.IsUnset())
			assert.Equal(t, tt.wantClear, o.IsClear())

			v, ok := o.Value()
			assert.Equal(t, !tt.wantUnset && !tt.wantClear, ok)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestOverride_Apply(t *testing.T) {
	current := "config"

	t.Run("unset keeps current", func(t *testing.T) {
		got := Unset[string]().Apply(&current)
		assert.Same(t, &current, got)
	})

	t.Run("clear empties", func(t *testing.T) {
		assert.Nil(t, Clear[string]().Apply(&current))
		assert.Nil(t, Clear[string]().Apply(nil))
	})

	t.Run("set replaces without aliasing", func(t *testing.T) {
		got := SetTo("flag").Apply(&current)
		assert.Equal(t, "flag", *got)
		assert.Equal(t, "config", current)

		*got = "changed"
		again := SetTo("flag").Apply(nil)
		assert.Equal(t, "flag", *again)
	})

	t.Run("zero value is unset", func(t *testing.T) {
		var o Override[int]
		assert.True(t, o.IsUnset())
		assert.Nil(t, o.Apply(nil))
	})
}

func TestOverride_String(t *testing.T) {
	assert.Equal(t, "unset", Unset[string]().String())
	assert.Equal(t, "NONE", Clear[string]().String())
	assert.Equal(t, "set", SetTo("secret").String())
}
