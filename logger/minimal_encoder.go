package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Single muted palette for console output. Warm, easy on the eyes.
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg     = "\x1b[38;5;223m" // soft cream
	colorTime   = "\x1b[38;5;108m" // muted cyan-green
	colorName   = "\x1b[38;5;208m" // warm orange
	colorIdent  = "\x1b[38;5;109m" // soft blue, record identifiers
	colorNumber = "\x1b[38;5;175m" // muted purple, counts and durations
	colorYellow = "\x1b[38;5;214m"
	colorRed    = "\x1b[38;5;167m"
	redBg       = "\x1b[48;5;88m"
	yellowBg    = "\x1b[48;5;58m"
)

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  temdb.client  created section  SECCUTBLK001001  42ms"
type minimalEncoder struct {
	zapcore.Encoder // embedded base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level tag only for WARN and above; INFO stays quiet
	if ent.Level != zapcore.InfoLevel && ent.Level != zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorName)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if len(fields) > 0 {
		if vals := extractFieldValues(fields); vals != "" {
			final.AppendString("  ")
			final.AppendString(vals)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + yellowBg + colorYellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + redBg + colorRed + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + redBg + colorRed + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: temdb.client -> t.client
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling common field types
func getFieldValue(field zapcore.Field) string {
	switch {
	case field.Type == zapcore.StringType:
		return field.String
	case field.Type >= zapcore.Int64Type && field.Type <= zapcore.Int8Type,
		field.Type >= zapcore.Uint64Type && field.Type <= zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case field.Interface != nil:
		return fmt.Sprintf("%v", field.Interface)
	default:
		return ""
	}
}

// extractFieldValues pulls just the values from structured fields.
// Record identifiers (any *_id key) render in the identifier color,
// counts and durations in the number color. Everything else is dropped
// from console output; use JSON mode for the full field set.
func extractFieldValues(fields []zapcore.Field) string {
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch {
		case strings.HasSuffix(field.Key, "_id"):
			values = append(values, colorIdent+val+colorReset)
		case field.Key == FieldCount || field.Key == FieldTotalCount || field.Key == FieldBatchSize:
			values = append(values, colorNumber+val+colorReset)
		case field.Key == FieldDurationMS:
			values = append(values, colorNumber+val+colorReset+"ms")
		case field.Key == FieldError:
			values = append(values, colorRed+val+colorReset)
		}
	}

	return strings.Join(values, " ")
}
