package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Value wraps a field value and provides type conversion helpers.
type Value struct {
	Raw any
}

// IsNil reports whether the value is missing.
func (v Value) IsNil() bool {
	return v.Raw == nil
}

// IsBool reports whether the raw value is a bool.
func (v Value) IsBool() bool {
	_, ok := v.Raw.(bool)
	return ok
}

// IsNumber reports whether the raw value is numeric.
func (v Value) IsNumber() bool {
	switch v.Raw.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

// String returns the value as a string.
// Objects and arrays render as json, nil as empty.
func (v Value) String() string {
	switch raw := v.Raw.(type) {
	case nil:
		return ""
	case string:
		return raw
	case bool:
		return strconv.FormatBool(raw)
	case json.Number:
		return raw.String()
	case float64:
		return formatFloat(raw)
	case float32:
		return formatFloat(float64(raw))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", raw)
	case map[string]any, Record, []any, []Record, []map[string]any:
		data, err := json.MarshalNoEscape(raw)
		if err != nil {
			return fmt.Sprintf("%v", raw)
		}
		return string(data)
	case fmt.Stringer:
		return raw.String()
	}
	return fmt.Sprintf("%v", v.Raw)
}

// Number returns the value as a finite float64.
// Strings are trimmed and parsed, the empty string counting as zero and
// bools as zero or one. Anything else, or a non-finite result, is not ok.
func (v Value) Number() (num float64, ok bool) {
	switch raw := v.Raw.(type) {
	case bool:
		if raw {
			return 1, true
		}
		return 0, true
	case string:
		num, ok = ParseNumber(raw)
		return
	case json.Number:
		num, ok = ParseNumber(raw.String())
		return
	case float64:
		num = raw
	case float32:
		num = float64(raw)
	case int:
		num = float64(raw)
	case int8:
		num = float64(raw)
	case int16:
		num = float64(raw)
	case int32:
		num = float64(raw)
	case int64:
		num = float64(raw)
	case uint:
		num = float64(raw)
	case uint8:
		num = float64(raw)
	case uint16:
		num = float64(raw)
	case uint32:
		num = float64(raw)
	case uint64:
		num = float64(raw)
	default:
		return 0, false
	}

	ok = !math.IsNaN(num) && !math.IsInf(num, 0)
	return
}

// ParseNumber parses decimal, exponent and 0x/0o/0b forms, ignoring
// surrounding whitespace. An empty string is zero.
func ParseNumber(in string) (num float64, ok bool) {

	in = strings.TrimSpace(in)
	if in == "" {
		return 0, true
	}

	if len(in) > 2 && in[0] == '0' && strings.ContainsRune("xXoObB", rune(in[1])) {
		i, err := strconv.ParseUint(strings.ToLower(in), 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(i), true
	}

	num, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return 0, false
	}

	ok = !math.IsNaN(num) && !math.IsInf(num, 0)
	return
}

// unexported

func formatFloat(num float64) string {

	abs := math.Abs(num)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		out := strconv.FormatFloat(num, 'e', -1, 64)
		out = strings.Replace(out, "e-0", "e-", 1)
		return strings.Replace(out, "e+0", "e+", 1)
	}

	return strconv.FormatFloat(num, 'f', -1, 64)
}
