package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger = slog.Default()

// Init configures the package logger. Production gets JSON output at info
// level, everything else gets text output with debug enabled.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets call sites pass bare errors or values alongside regular
// key-value pairs without tripping slog's pairing rules.
func normalize(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			out = append(out, slog.Any("error", v))
		case slog.Attr:
			out = append(out, v)
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
			} else {
				out = append(out, slog.Any("detail", v))
			}
		default:
			out = append(out, slog.Any("detail", v))
		}
	}
	return out
}
