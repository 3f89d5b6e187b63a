package recorder

import (
	"context"

	"varcvar-api/internal/models"
)

// NoopRecorder is used when no recorder is configured; submissions then only
// reach the diagnostic log.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSubmission(_ context.Context, _ *models.Submission) error { return nil }
func (n *NoopRecorder) Close() error                                                  { return nil }
