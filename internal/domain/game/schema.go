package game

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

var (
	statusKeys = []string{"long", "short", "timer"}
	scoreKeys  = []string{"quarter_1", "quarter_2", "quarter_3", "quarter_4", "over_time", "total"}
)

// Status is the feed's {long, short, timer} object.
type Status map[string]any

// Score is one side's {quarter_1..4, over_time, total} object.
type Score map[string]any

func (s Status) Validate() error {
	return checkKeys(s, statusKeys)
}

func (s Score) Validate() error {
	if err := checkKeys(s, scoreKeys); err != nil {
		return err
	}

	for _, key := range scoreKeys {
		value := s[key]
		if !truthy(value) {
			continue
		}
		if _, ok := coerceInt(value); !ok {
			return invalidf("couldn't convert %v to int", value)
		}
	}

	return nil
}

func checkKeys(value map[string]any, expected []string) error {
	if value == nil {
		return invalidf("value is required")
	}

	var missing, extra []string
	for _, key := range expected {
		if _, ok := value[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range value {
		if !slices.Contains(expected, key) {
			extra = append(extra, key)
		}
	}

	if len(missing) > 0 {
		return invalidf("the following keys are missing: %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return invalidf("invalid keys %s; the accepted keys are: %s",
			strings.Join(extra, ", "), strings.Join(expected, ", "))
	}

	return nil
}

// truthy reports whether a decoded JSON value is non-empty. Falsy values
// (null, false, 0, "", empty containers) are exempt from int coercion.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		return v != "" && v != "0"
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceInt(value any) (int64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return coerceFloat(float64(v))
	case float64:
		return coerceFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return coerceFloat(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func coerceFloat(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int64(math.Trunc(v)), true
}

// Total returns the integer total of a score, or 0 when absent.
func (s Score) Total() int64 {
	n, _ := coerceInt(s["total"])
	return n
}
