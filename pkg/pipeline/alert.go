package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Alert struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Total   uint64    `json:"total"`
	Rate    float64   `json:"rate"`
}

// Alerter raises an alert for every event once the aggregated total reaches
// Threshold. A threshold of 0 alerts on every event.
type Alerter struct {
	Threshold func() int
}

func NewAlerter(threshold int) Alerter {
	return Alerter{Threshold: func() int { return threshold }}
}

func (a Alerter) Check(levelName, message string, at time.Time, agg Aggregation) (Alert, bool) {
	t := 0
	if a.Threshold != nil {
		t = a.Threshold()
	}
	if t > 0 && agg.Total < uint64(t) {
		return Alert{}, false
	}
	return Alert{Time: at, Level: levelName, Message: message, Total: agg.Total, Rate: agg.Rate}, true
}

type jsonAlert struct {
	Alert   bool    `json:"alert"`
	Time    string  `json:"time"`
	Level   string  `json:"level"`
	Message string  `json:"message"`
	Total   uint64  `json:"total"`
	Rate    float64 `json:"rate"`
}

func WriteAlert(w io.Writer, format string, a Alert) error {
	switch format {
	case FormatJSON:
		b, err := json.Marshal(jsonAlert{
			Alert:   true,
			Time:    a.Time.Format("2006-01-02 15:04:05"),
			Level:   a.Level,
			Message: a.Message,
			Total:   a.Total,
			Rate:    a.Rate,
		})
		if err != nil {
			return errors.Wrap(err, "marshal alert")
		}
		_, err = fmt.Fprintln(w, string(b))
		return errors.Wrap(err, "write alert")
	case FormatText, "":
		_, err := io.WriteString(w, RenderAlertBox(a))
		return errors.Wrap(err, "write alert")
	default:
		return errors.Errorf("unknown alert format %q", format)
	}
}

// RenderAlertBox renders the human readable alert block.
func RenderAlertBox(a Alert) string {
	const width = 58
	msg := a.Message
	if msg == "" {
		msg = "(no message)"
	}
	line := func(s string) string {
		r := []rune(s)
		if len(r) > width-2 {
			r = r[:width-2]
		}
		return "║ " + string(r) + strings.Repeat(" ", width-2-len(r)) + " ║\n"
	}

	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", width) + "╗\n")
	b.WriteString(line("ALIN ALERT " + a.Level))
	b.WriteString("╠" + strings.Repeat("═", width) + "╣\n")
	b.WriteString(line("Time:    " + a.Time.Format("2006-01-02 15:04:05")))
	b.WriteString(line("Message: " + msg))
	b.WriteString(line(fmt.Sprintf("Count:   %-6d  Rate: %-6.2f events/sec", a.Total, a.Rate)))
	b.WriteString("╚" + strings.Repeat("═", width) + "╝\n")
	return b.String()
}
