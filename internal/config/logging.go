package config

import "log/slog"

// SlogLevel maps logLevel (0 quiet .. 3 debug) onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch {
	case c.LogLevel <= 0:
		return slog.LevelError
	case c.LogLevel == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
