package recorder

import (
	"context"

	"github.com/rs/zerolog"

	"varcvar-api/internal/config"
)

// Open returns the recorder selected by cfg.Recorder. If the configured
// backend cannot be reached it logs a warning and falls back to NoopRecorder,
// so submissions still reach the diagnostic log.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) Recorder {
	switch cfg.Recorder {
	case config.RecorderSQLite:
		r, err := NewSQLiteRecorder(cfg.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using log only")
			return NewNoopRecorder()
		}
		return r
	case config.RecorderFirestore:
		r, err := NewFirestoreRecorder(ctx, cfg.FirestoreProject, log)
		if err != nil {
			log.Warn().Err(err).Msg("firestore recorder unavailable, using log only")
			return NewNoopRecorder()
		}
		return r
	}
	return NewNoopRecorder()
}
