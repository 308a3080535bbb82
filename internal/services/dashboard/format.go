package dashboard

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// timestampLayout is how reading timestamps are shown in the table.
const timestampLayout = "2006-01-02 15:04:05"

// FormatValue renders a reading value or aggregate with two decimals. NaN and
// infinities render blank.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatTimestamp renders a reading timestamp, blank when unset.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
