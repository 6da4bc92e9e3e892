package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"deedscout-backend/cmd/deedscout/commands"
	"deedscout-backend/lib/serviceutil"
	"deedscout-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(true)

	tel, err := telemetry.SetupFromEnv(ctx, "deedscout")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to set up telemetry", "err", err)
	}
	// flush buffered spans/metrics on the way out; the signal context
	// is already cancelled by then
	defer tel.Shutdown(context.Background())

	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
