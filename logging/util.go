package logging

import (
	"log/slog"
	"strings"
)

// LevelFromString parses level names as slog prints them, offsets such as
// "DEBUG+2" included. Unknown or missing names give Info.
func LevelFromString(str *string) slog.Level {
	if str == nil {
		return slog.LevelInfo
	}
	name := strings.TrimSpace(*str)
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// AttrFormatFromString gives JSON unless TEXT is asked for.
func AttrFormatFromString(str *string) LogAttrFormat {
	if str != nil && strings.EqualFold(strings.TrimSpace(*str), string(LogAttrFormatText)) {
		return LogAttrFormatText
	}
	return LogAttrFormatJSON
}
