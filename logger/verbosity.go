package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These control how much of the generation run is narrated:
//
//	0 (none)  - summary, warnings and errors only
//	1 (-v)    - + per-entity creation progress
//	2 (-vv)   - + HTTP request detail, timing, per-tile records
const (
	VerbosityUser  = 0
	VerbosityInfo  = 1
	VerbosityDebug = 2
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch verbosity {
	case VerbosityUser:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
