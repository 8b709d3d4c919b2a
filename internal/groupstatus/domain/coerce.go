package groupstatus

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// spreadsheetEpoch is day zero of the legacy numeric date encoding used by
// facility tags with data type 9.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SpreadsheetDate converts a serial day count into a display date.
func SpreadsheetDate(serial float64) string {
	days := int(serial)
	frac := serial - float64(days)
	at := spreadsheetEpoch.AddDate(0, 0, days)
	if frac > 0 {
		at = at.Add(time.Duration(frac * 24 * float64(time.Hour)))
	}
	return at.Format("01/02/2006 15:04:05")
}

// FormatSeconds renders a second count as HH:MM:SS.
func FormatSeconds(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatMinutesHoursDays renders a minute count in the largest sensible
// unit, used by the time-in-state common column.
func FormatMinutesHoursDays(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%.0f m", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%.1f h", minutes/60)
	default:
		return fmt.Sprintf("%.1f d", minutes/(24*60))
	}
}

// IsAllDigits reports whether the string is non-empty and numeric-only.
func IsAllDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReCoerce renders a merged facility value in its narrowest numeric form:
// integer, then float, then the literal "0" fallback.
func ReCoerce(value string) (string, CellValueType) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return strconv.FormatInt(parsed, 10), CellValueInt
	}
	if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return strconv.FormatFloat(parsed, 'f', -1, 64), CellValueFloat
	}
	return "0", CellValueString
}

// LooksNumeric reports whether the value parses as a float.
func LooksNumeric(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

// RoundToSignificantDigits rounds x to n significant digits. n <= 0 returns
// x unchanged.
func RoundToSignificantDigits(x float64, n int) float64 {
	if n <= 0 || x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	magnitude := math.Ceil(math.Log10(math.Abs(x)))
	power := float64(n) - magnitude
	scale := math.Pow(10, power)
	return math.Round(x*scale) / scale
}
