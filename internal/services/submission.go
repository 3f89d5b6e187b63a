package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
	"varcvar-api/internal/recorder"
)

// SubmissionService accepts submitted forms. Every accepted snapshot is
// written to the diagnostic log; recording and forwarding are optional.
type SubmissionService struct {
	log      zerolog.Logger
	recent   *Cache[string, *models.Submission]
	recorder recorder.Recorder
	backend  *BackendClient // nil when no backend is configured
	now      func() time.Time
}

func NewSubmissionService(log zerolog.Logger, rec recorder.Recorder, backend *BackendClient, ttl time.Duration) *SubmissionService {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &SubmissionService{
		log:      log.With().Str("component", "submission").Logger(),
		recent:   NewCache[string, *models.Submission](ttl),
		recorder: rec,
		backend:  backend,
		now:      time.Now,
	}
}

// Submit returns form.ErrSubmitDisabled when the form cannot be submitted.
// Recorder and backend failures are logged and do not fail the submission.
func (s *SubmissionService) Submit(ctx context.Context, state *form.State) (*models.Submission, error) {
	snap, err := state.Submit()
	if err != nil {
		s.log.Debug().Err(err).Msg("submit rejected")
		return nil, err
	}

	sub := &models.Submission{
		ID:          uuid.NewString(),
		Snapshot:    snap,
		SubmittedAt: s.now().UTC(),
	}

	for _, w := range Warnings(state) {
		s.log.Warn().Str("submission_id", sub.ID).Msg(w)
	}

	if s.backend != nil {
		if err := s.backend.Send(ctx, snap); err != nil {
			s.log.Error().Err(err).Str("submission_id", sub.ID).Msg("failed to forward snapshot")
		} else {
			sub.Forwarded = true
		}
	}

	s.log.Info().
		Str("submission_id", sub.ID).
		Int("tau", snap.Tau).
		Int("delta", snap.Delta).
		Float64("alpha", snap.Alpha).
		Int("d", snap.D).
		Str("startDate", *snap.StartDate).
		Str("endDate", *snap.EndDate).
		Strs("selectedFunds", snap.SelectedFunds).
		Bool("forwarded", sub.Forwarded).
		Msg("parameter snapshot")

	s.recent.Set(sub.ID, sub)

	if err := s.recorder.RecordSubmission(ctx, sub); err != nil {
		s.log.Error().Err(err).Str("submission_id", sub.ID).Msg("failed to record submission")
	}

	return sub, nil
}

// Get returns a submission accepted within the retention window
func (s *SubmissionService) Get(id string) (*models.Submission, bool) {
	return s.recent.Get(id)
}

// Recent lists retained submissions, newest first
func (s *SubmissionService) Recent() []*models.Submission {
	subs := s.recent.Values()
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs
}

// History lists up to limit submissions, newest first. Recorders that can
// read back serve it so the list outlives the retention window and restarts;
// otherwise it comes from the in-memory window.
func (s *SubmissionService) History(ctx context.Context, limit int) ([]*models.Submission, error) {
	if h, ok := s.recorder.(recorder.History); ok {
		subs, err := h.Recent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("read submission history: %w", err)
		}
		if subs == nil {
			subs = []*models.Submission{}
		}
		return subs, nil
	}
	subs := s.Recent()
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

// Prune drops submissions past the retention window
func (s *SubmissionService) Prune() int {
	n := s.recent.Prune()
	if n > 0 {
		s.log.Debug().Int("removed", n).Msg("pruned recent submissions")
	}
	return n
}

// Close releases the recorder
func (s *SubmissionService) Close() error {
	return s.recorder.Close()
}
