package dashboard

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders a counter with digit grouping, e.g. 12,345.
func FormatCount(n uint64) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatRate renders events per second with one decimal.
func FormatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// FormatTime renders an event timestamp as a 24h wall clock.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}
