package template

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// groupedInt renders integers with thousands separators (1500 -> "1,500").
var groupedInt = message.NewPrinter(language.English)

// FormatCurrency renders an amount in the template's fixed currency
// styles: "¥1,500" for JPY, "$1,500" for USD, "THB 1,500" for anything
// else. Amounts round to the nearest whole unit. A missing or non-numeric
// amount renders as the currency's zero form, and an unresolved currency
// code falls back to JPY.
func FormatCurrency(amount any, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = "JPY"
	}

	n, ok := toNumber(amount)
	if !ok {
		n = 0
	}
	grouped := groupedInt.Sprintf("%d", int64(math.Round(n)))

	switch currency {
	case "JPY":
		return "¥" + grouped
	case "USD":
		return "$" + grouped
	default:
		return currency + " " + grouped
	}
}

// dateLayouts are the accepted input forms for formatDate, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a date value for the given language: the short
// localized form for Japanese ("2025/07/04"), the long form otherwise
// ("July 4, 2025"). Absent or unparseable values render as "".
func FormatDate(date any, lang string) string {
	var t time.Time
	switch v := date.(type) {
	case time.Time:
		t = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			parsed, err := time.Parse(layout, s)
			if err == nil {
				t = parsed
				break
			}
		}
		if t.IsZero() {
			return ""
		}
	default:
		return ""
	}

	if lang == "ja" {
		return t.Format("2006/01/02")
	}
	return t.Format("January 2, 2006")
}
