package numberutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFloat64(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{name: "nil input", value: nil, want: nil},
		{name: "empty string", value: "", want: nil},
		{name: "missing sentinel", value: "-99", want: nil},
		{name: "sentinel with whitespace", value: " -99 ", want: nil},
		{name: "not a number", value: "abc", want: nil},
		{name: "parsable string", value: "23.5", want: floatPtr(23.5)},
		{name: "negative string", value: "-3.2", want: floatPtr(-3.2)},
		{name: "integer string", value: "87", want: floatPtr(87)},
		{name: "json number", value: json.Number("121.5148"), want: floatPtr(121.5148)},
		{name: "native float", value: 25.0625, want: floatPtr(25.0625)},
		{name: "native int", value: 42, want: floatPtr(42)},
		{name: "unsupported type", value: []string{"25"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeFloat64(tt.value)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestSafeFloat64NumericSentinelPassesThrough(t *testing.T) {
	// Only the string form of -99 marks missing data; a numeric -99 is a
	// legitimate (if unlikely) reading and must survive coercion.
	got := SafeFloat64(float64(-99))
	require.NotNil(t, got)
	assert.Equal(t, float64(-99), *got)
}

func TestToIntWithDefault(t *testing.T) {
	assert.Equal(t, 7, ToIntWithDefault("7", 10))
	assert.Equal(t, 10, ToIntWithDefault("x", 10))
	assert.Equal(t, 10, ToIntWithDefault("", 10))
}

func floatPtr(f float64) *float64 { return &f }
