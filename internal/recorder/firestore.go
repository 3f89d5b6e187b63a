package recorder

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"

	"varcvar-api/internal/models"
)

const submissionsCollection = "submissions"

// FirestoreRecorder stores submissions as documents keyed by submission ID.
type FirestoreRecorder struct {
	client *firestore.Client
	log    zerolog.Logger
}

func NewFirestoreRecorder(ctx context.Context, projectID string, log zerolog.Logger) (*FirestoreRecorder, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	l := log.With().Str("component", "firestore_recorder").Logger()
	l.Info().Str("project", projectID).Msg("firestore recorder connected")
	return &FirestoreRecorder{client: client, log: l}, nil
}

func (r *FirestoreRecorder) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	if _, err := r.client.Collection(submissionsCollection).Doc(sub.ID).Set(ctx, sub); err != nil {
		return fmt.Errorf("store submission %s: %w", sub.ID, err)
	}
	return nil
}

func (r *FirestoreRecorder) Close() error {
	r.log.Info().Msg("closing firestore recorder")
	return r.client.Close()
}
