package styles

import "github.com/go-go-golems/alin-dash/pkg/event"

const (
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconBullet  = "•"
	IconAlert   = "⚑"
	IconLive    = "●"
	IconArrow   = "→"
)

// LevelIcon returns the icon for a level.
func LevelIcon(l event.Level) string {
	switch l {
	case event.LevelError, event.LevelFatal:
		return IconError
	case event.LevelWarn:
		return IconWarning
	case event.LevelInfo:
		return IconInfo
	default:
		return IconBullet
	}
}

// LevelNameIcon is LevelIcon for raw level names such as those carried by
// alerts.
func LevelNameIcon(name string) string {
	return LevelIcon(event.ParseLevel(name))
}
