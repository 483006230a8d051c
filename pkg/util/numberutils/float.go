package numberutils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// missingSentinel is the value the CWA OpenData API reports when a sensor is
// offline or a reading is unavailable. It is always delivered as a string.
const missingSentinel = "-99"

// SafeFloat64 converts a loosely-typed API scalar to an optional float64.
// It returns nil for nil input, the empty string, the "-99" missing-data
// sentinel, and anything that does not parse as a float. It never panics
// and never returns an error, so a bad value can not abort a batch parse.
func SafeFloat64(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		return parseFloat(v.String())
	case string:
		return parseFloat(v)
	default:
		return nil
	}
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == missingSentinel {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
