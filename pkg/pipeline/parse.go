package pipeline

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-go-golems/alin-dash/pkg/event"
)

// Record is a normalized log line: the event plus the raw level name and the
// original input.
type Record struct {
	Event    event.Event
	RawLevel string
	Raw      string
}

var (
	messageKeys   = []string{"message", "msg", "error"}
	timestampKeys = []string{"timestamp", "ts", "time"}
)

// Parse normalizes one input line. JSON objects contribute level, message and
// timestamp; anything else becomes a RAW record carrying the whole line.
// The second return value is false for blank lines.
func Parse(line string, now time.Time) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false
	}

	var fields map[string]any
	if !strings.HasPrefix(line, "{") || json.Unmarshal([]byte(line), &fields) != nil {
		return Record{
			Event:    event.Event{Level: event.LevelInfo, Message: line, Timestamp: now},
			RawLevel: "RAW",
			Raw:      line,
		}, true
	}

	rawLevel := "INFO"
	if v, ok := fields["level"].(string); ok && v != "" {
		rawLevel = strings.ToUpper(v)
	}

	msg := ""
	for _, k := range messageKeys {
		if v, ok := fields[k].(string); ok {
			msg = v
			break
		}
	}

	ts := now
	for _, k := range timestampKeys {
		if t, ok := parseTimestamp(fields[k]); ok {
			ts = t
			break
		}
	}

	return Record{
		Event:    event.Event{Level: event.ParseLevel(rawLevel), Message: msg, Timestamp: ts},
		RawLevel: rawLevel,
		Raw:      line,
	}, true
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return fromEpoch(t)
	case string:
		if t == "" {
			return time.Time{}, false
		}
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return fromEpoch(n)
		}
		parsed, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// fromEpoch accepts seconds, or milliseconds for values past 1e12.
func fromEpoch(n float64) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	if n > 1e12 {
		return time.UnixMilli(int64(n)), true
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), true
}
