package statistics

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// percent returns part/whole*100 rounded to one decimal. A zero whole yields
// 0, never NaN or Inf.
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(whole).Round(1).InexactFloat64()
}

func percentInt(part, whole int) float64 {
	return percent(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)))
}

// splitProductIDs reads the individual product list of a set product. Both
// the comma separated form and a JSON array of codes are accepted.
func splitProductIDs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var codes []string
		if err := json.Unmarshal([]byte(raw), &codes); err == nil {
			return compact(codes)
		}
		raw = strings.Trim(raw, "[]")
	}

	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}
	return compact(parts)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// AchievementRate is performance/target*100 rounded to one decimal.
func AchievementRate(performance, target int) float64 {
	return percentInt(performance, target)
}
