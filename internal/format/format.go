// Package format renders numbers and dates following the French convention
// used across the query results: "1 234,50" and "01/06/2024".
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupSeparator is the fr-FR thousands separator (narrow no-break space)
const GroupSeparator = "\u202f"

// DateLayout is the display layout for dates (DD/MM/YYYY)
const DateLayout = "02/01/2006"

// Accepted input layouts, tried in order. "2/1/2006" also accepts zero-padded days and months.
var dateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Number formats v with exactly two fractional digits, a decimal comma and
// grouped thousands. A nil value formats to "".
func Number(v *float64) string {
	if v == nil {
		return ""
	}
	return Float(*v)
}

// Float is Number for a plain value. NaN and infinities format to "".
func Float(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}

	fixed := decimal.NewFromFloat(v).StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := groupThousands(intPart) + "," + fracPart
	if negative && out != "0,00" {
		out = "-" + out
	}
	return out
}

// Count formats an entry count. A nil value formats to "".
func Count(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// ParseDate parses a date in any of the accepted layouts
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders s as DD/MM/YYYY. Input that cannot be parsed is returned unchanged.
func Date(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DateLayout)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(GroupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
