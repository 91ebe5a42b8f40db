package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the run id from an event's context onto the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if runID := GetRunID(ctx); runID != "" {
		e.Str("run_id", runID)
	}
}
