package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)

func TestParse_JSONFieldAliases(t *testing.T) {
	rec, ok := Parse(`{"level":"warning","msg":"disk low","ts":1767952800}`, testNow)
	require.True(t, ok)
	require.Equal(t, "WARNING", rec.RawLevel)
	require.Equal(t, event.LevelWarn, rec.Event.Level)
	require.Equal(t, "disk low", rec.Event.Message)
	require.Equal(t, int64(1767952800), rec.Event.Timestamp.Unix())

	rec, ok = Parse(`{"level":"error","error":"boom","time":"2026-01-09T09:30:00Z"}`, testNow)
	require.True(t, ok)
	require.Equal(t, "boom", rec.Event.Message)
	require.Equal(t, time.Date(2026, 1, 9, 9, 30, 0, 0, time.UTC), rec.Event.Timestamp.UTC())

	rec, ok = Parse(`{"message":"no level","timestamp":1767952800123}`, testNow)
	require.True(t, ok)
	require.Equal(t, "INFO", rec.RawLevel)
	require.Equal(t, int64(1767952800123), rec.Event.Timestamp.UnixMilli())
}

func TestParse_NonJSONBecomesRaw(t *testing.T) {
	rec, ok := Parse("  plain text line \n", testNow)
	require.True(t, ok)
	require.Equal(t, "RAW", rec.RawLevel)
	require.Equal(t, event.LevelInfo, rec.Event.Level)
	require.Equal(t, "plain text line", rec.Event.Message)
	require.Equal(t, testNow, rec.Event.Timestamp)

	rec, ok = Parse("{not json", testNow)
	require.True(t, ok)
	require.Equal(t, "RAW", rec.RawLevel)

	_, ok = Parse("   ", testNow)
	require.False(t, ok)
}

func TestLevelFilter(t *testing.T) {
	f := NewLevelFilter(event.LevelWarn)
	_, ok, err := f.Apply(event.Event{Level: event.LevelError})
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, _ = f.Apply(event.Event{Level: event.LevelInfo})
	require.False(t, ok)
}

func TestPipeline_FatalMinimumDropsError(t *testing.T) {
	min, err := event.ParseFilterLevel("FATAL")
	require.NoError(t, err)
	p := New(NewLevelFilter(min), NewAlerter(0))
	p.Now = func() time.Time { return testNow }

	_, ok, err := p.Process(`{"level":"error","message":"disk full"}`)
	require.NoError(t, err)
	require.False(t, ok)

	out, ok, err := p.Process(`{"level":"fatal","message":"kernel panic"}`)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "FATAL", out.Level)

	_, ok, err = p.Process(`{"level":"critical","message":"db down"}`)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAggregator_CountsByRawLevel(t *testing.T) {
	a := NewAggregator(testNow)
	a.Add("ERROR", testNow)
	a.Add("FATAL", testNow)
	agg := a.Add("ERROR", testNow.Add(2*time.Second))
	require.Equal(t, uint64(3), agg.Total)
	require.Equal(t, uint64(2), agg.ByLevel["ERROR"])
	require.Equal(t, uint64(1), agg.ByLevel["FATAL"])
	require.InDelta(t, 1.5, agg.Rate, 1e-9)

	a.Reset(testNow)
	require.Equal(t, uint64(1), a.Add("", testNow).ByLevel["UNKNOWN"])
}

func TestAlerter_Threshold(t *testing.T) {
	_, fire := NewAlerter(3).Check("ERROR", "m", testNow, Aggregation{Total: 2})
	require.False(t, fire)
	a, fire := NewAlerter(3).Check("ERROR", "m", testNow, Aggregation{Total: 3, Rate: 1})
	require.True(t, fire)
	require.Equal(t, uint64(3), a.Total)
	_, fire = NewAlerter(0).Check("INFO", "m", testNow, Aggregation{Total: 1})
	require.True(t, fire)
}

func TestWriteAlert_Formats(t *testing.T) {
	a := Alert{Time: testNow, Level: "ERROR", Message: "db down", Total: 12, Rate: 0.5}

	var buf bytes.Buffer
	require.NoError(t, WriteAlert(&buf, FormatJSON, a))
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	require.Equal(t, true, m["alert"])
	require.Equal(t, "2026-01-09 10:00:00", m["time"])
	require.Equal(t, "db down", m["message"])

	buf.Reset()
	require.NoError(t, WriteAlert(&buf, FormatText, a))
	require.Contains(t, buf.String(), "ALIN ALERT ERROR")
	require.Contains(t, buf.String(), "Message: db down")

	require.Error(t, WriteAlert(&buf, "xml", a))
}

func TestPipeline_Run(t *testing.T) {
	p := New(NewLevelFilter(event.LevelError), NewAlerter(2))
	p.Now = func() time.Time { return testNow }
	p.Agg = NewAggregator(testNow)

	in := strings.Join([]string{
		`{"level":"info","message":"fine"}`,
		`{"level":"error","message":"first"}`,
		``,
		`{"level":"fatal","message":"second"}`,
		`just text`,
	}, "\n")

	var out, alerts bytes.Buffer
	require.NoError(t, p.Run(context.Background(), strings.NewReader(in), &out, &alerts, FormatJSON))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first, second Output
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "log", first.Type)
	require.Equal(t, "ERROR", first.Level)
	require.Equal(t, uint64(1), first.Agg.Total)
	require.Equal(t, "FATAL", second.Level)
	require.Equal(t, uint64(2), second.Agg.Total)

	alertLines := strings.Split(strings.TrimSpace(alerts.String()), "\n")
	require.Len(t, alertLines, 1)
	require.Contains(t, alertLines[0], `"message":"second"`)
}
