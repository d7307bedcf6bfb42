package scoring

import "math"

// ParseStatLine converts a decoded feed object into a StatLine. Unknown
// categories and values that are not finite numbers are dropped.
func ParseStatLine(raw map[string]any) StatLine {
	out := make(StatLine, len(raw))
	for key, value := range raw {
		category := ParseCategory(key)
		if category == CategoryUnknown {
			continue
		}
		number, ok := toFloat(value)
		if !ok {
			continue
		}
		out[category] = number
	}
	return out
}

// ParseRules converts league scoring settings into Rules, dropping unknown
// categories.
func ParseRules(raw map[string]float64) Rules {
	out := make(Rules, len(raw))
	for key, weight := range raw {
		category := ParseCategory(key)
		if category == CategoryUnknown || !finite(weight) {
			continue
		}
		out[category] = weight
	}
	return out
}

func toFloat(value any) (float64, bool) {
	var out float64
	switch v := value.(type) {
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int64:
		out = float64(v)
	case int32:
		out = float64(v)
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		out = f
	default:
		return 0, false
	}
	return out, finite(out)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
