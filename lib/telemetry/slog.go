package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide slog handler. pretty means
// human-oriented text output, otherwise json for log collectors.
func InitSlog(pretty bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	if pretty {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
