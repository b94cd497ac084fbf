package event

import (
	"strings"

	"github.com/pkg/errors"
)

// Level is a log severity. The zero value is DEBUG, the lowest rank.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal only comes from parsed input. The dashboard counts it as
	// ERROR.
	LevelFatal
)

// Levels lists the dashboard levels from most to least severe, the order
// views use.
var Levels = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// Lower returns the lowercase name, used for CSS classes and DOM ids.
func (l Level) Lower() string {
	return strings.ToLower(l.String())
}

// Rank orders levels for filtering: DEBUG 0, INFO 1, WARN 2, ERROR 3,
// FATAL 4.
func (l Level) Rank() int {
	return int(l)
}

// AtLeast reports whether l is as severe as min or more.
func (l Level) AtLeast(min Level) bool {
	return l.Rank() >= min.Rank()
}

// Counter is the dashboard level l is counted under.
func (l Level) Counter() Level {
	if l == LevelFatal {
		return LevelError
	}
	return l
}

func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	*l = ParseLevel(string(b))
	return nil
}

// lookupLevel resolves a level name and its aliases. The second return value
// is false for names that are not known at all.
func lookupLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
		return LevelDebug, true
	case "INFO", "RAW":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR", "ERR":
		return LevelError, true
	case "FATAL", "CRITICAL":
		return LevelFatal, true
	}
	return LevelInfo, false
}

// ParseLevel maps a level name (case-insensitive, with aliases) to a Level.
// Unknown names are treated as INFO.
func ParseLevel(s string) Level {
	l, _ := lookupLevel(s)
	return l
}

// ParseFilterLevel parses a minimum level for filtering. "ALL" and the empty
// string select everything.
func ParseFilterLevel(s string) (Level, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" || trimmed == "ALL" {
		return LevelDebug, nil
	}
	l, ok := lookupLevel(trimmed)
	if !ok {
		return LevelDebug, errors.Errorf("unknown level %q", s)
	}
	return l, nil
}

// ParseKnownLevel is ParseLevel without the INFO fallback.
func ParseKnownLevel(s string) (Level, error) {
	l, ok := lookupLevel(s)
	if !ok {
		return LevelInfo, errors.Errorf("unknown level %q", s)
	}
	return l, nil
}
