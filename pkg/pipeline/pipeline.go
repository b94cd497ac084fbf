package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Output is what a line turns into after the parse, filter and aggregate
// stages. Alert is nil when the alert stage stayed silent.
type Output struct {
	Type      string      `json:"_type"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	Timestamp int64       `json:"timestamp"`
	Raw       string      `json:"_raw,omitempty"`
	Agg       Aggregation `json:"_agg"`
	Alert     *Alert      `json:"-"`
}

// Pipeline wires the parser -> filter -> agg -> alert stages.
type Pipeline struct {
	Filter  Filter
	Agg     *Aggregator
	Alerter Alerter
	Now     func() time.Time
}

func New(filter Filter, alerter Alerter) *Pipeline {
	return &Pipeline{
		Filter:  filter,
		Agg:     NewAggregator(time.Now()),
		Alerter: alerter,
		Now:     time.Now,
	}
}

// Process runs a single line. It returns false when the line was blank or
// rejected by the filter.
func (p *Pipeline) Process(line string) (Output, bool, error) {
	now := p.Now()
	rec, ok := Parse(line, now)
	if !ok {
		return Output{}, false, nil
	}

	ev := rec.Event
	if p.Filter != nil {
		var err error
		ev, ok, err = p.Filter.Apply(ev)
		if err != nil {
			return Output{}, false, errors.Wrap(err, "filter")
		}
		if !ok {
			return Output{}, false, nil
		}
	}

	agg := p.Agg.Add(rec.RawLevel, now)
	out := Output{
		Type:      "log",
		Level:     rec.RawLevel,
		Message:   ev.Message,
		Timestamp: ev.Timestamp.Unix(),
		Raw:       rec.Raw,
		Agg:       agg,
	}
	if a, fire := p.Alerter.Check(rec.RawLevel, ev.Message, ev.Timestamp, agg); fire {
		out.Alert = &a
	}
	return out, true, nil
}

// Run streams lines from r, writes passing events as NDJSON to out and
// alerts to alerts in the given format. Filter errors are logged and the
// line skipped.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, out io.Writer, alerts io.Writer, alertFormat string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	var lineNumber int64
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNumber++
		o, ok, err := p.Process(sc.Text())
		if err != nil {
			log.Warn().Err(err).Int64("line", lineNumber).Msg("dropping line")
			continue
		}
		if !ok {
			continue
		}
		if err := enc.Encode(o); err != nil {
			return errors.Wrap(err, "write event")
		}
		if o.Alert != nil && alerts != nil {
			if err := WriteAlert(alerts, alertFormat, *o.Alert); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}
	return nil
}
