package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel_Aliases(t *testing.T) {
	cases := map[string]Level{
		"debug":    LevelDebug,
		"TRACE":    LevelDebug,
		"Info":     LevelInfo,
		"raw":      LevelInfo,
		"warning":  LevelWarn,
		"WARN":     LevelWarn,
		"err":      LevelError,
		"FATAL":    LevelFatal,
		"critical": LevelFatal,
		"bogus":    LevelInfo,
		"":         LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFilterLevel(t *testing.T) {
	l, err := ParseFilterLevel("ALL")
	require.NoError(t, err)
	require.Equal(t, LevelDebug, l)

	l, err = ParseFilterLevel(" warn ")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, l)

	_, err = ParseFilterLevel("loud")
	require.Error(t, err)
}

func TestFatalRanksAboveError(t *testing.T) {
	min, err := ParseFilterLevel("FATAL")
	require.NoError(t, err)
	require.Equal(t, LevelFatal, min)
	require.Equal(t, 4, min.Rank())

	require.False(t, LevelError.AtLeast(min))
	require.True(t, ParseLevel("critical").AtLeast(min))
	require.True(t, LevelFatal.AtLeast(LevelError))

	require.Equal(t, LevelError, LevelFatal.Counter())
	require.Equal(t, LevelWarn, LevelWarn.Counter())
	require.Equal(t, "FATAL", LevelFatal.String())
}

func TestLevel_RankOrdering(t *testing.T) {
	require.True(t, LevelError.AtLeast(LevelWarn))
	require.True(t, LevelWarn.AtLeast(LevelWarn))
	require.False(t, LevelInfo.AtLeast(LevelWarn))
	require.False(t, LevelDebug.AtLeast(LevelInfo))
}

func TestEvent_JSONUsesLevelName(t *testing.T) {
	b, err := json.Marshal(Event{Level: LevelWarn, Message: "m"})
	require.NoError(t, err)
	require.Contains(t, string(b), `"level":"WARN"`)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"level":"error","message":"x"}`), &ev))
	require.Equal(t, LevelError, ev.Level)
}

func TestMessages_EveryLevelHasAPool(t *testing.T) {
	for _, l := range Levels {
		require.Len(t, Messages[l], 5, l.String())
	}
}

func TestParseKnownLevel(t *testing.T) {
	l, err := ParseKnownLevel("warning")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, l)

	_, err = ParseKnownLevel("all")
	require.Error(t, err)
	_, err = ParseKnownLevel("")
	require.Error(t, err)
}
