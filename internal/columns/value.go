package columns

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset is the day count between the 1899-12-30 spreadsheet epoch
// and the Unix epoch.
const excelEpochOffset = 25569

// Number coerces a raw cell value to a float64. Norwegian exports use comma
// decimals and space thousand separators, so those are normalized first.
// Anything unparsable (empty, text, missing cell) contributes exactly 0: sums
// over uploaded data never fail and never propagate NaN.
func Number(val string) float64 {
	s := strings.ReplaceAll(val, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// dateLayouts are tried in order for string-valued date cells.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006",
}

// Date decodes a raw cell value to a timestamp. Numeric values are treated
// as spreadsheet serial day counts relative to 1899-12-30; strings are tried
// against the known layouts. The second return is false when the value could
// not be decoded, in which case callers keep the raw string for display.
func Date(val string) (time.Time, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		secs := (serial - excelEpochOffset) * 86400
		return time.Unix(int64(secs), 0).UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey renders a decoded date as the calendar-day grouping key. When the
// value cannot be decoded the raw string itself is the key, so malformed
// dates still group deterministically.
func DayKey(val string) string {
	if t, ok := Date(val); ok {
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(val)
}
