package recorder

import (
	"context"

	"varcvar-api/internal/models"
)

// Recorder persists accepted parameter submissions.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub *models.Submission) error
	Close() error
}

// History is implemented by recorders that can read submissions back.
type History interface {
	Recent(ctx context.Context, limit int) ([]*models.Submission, error)
}
