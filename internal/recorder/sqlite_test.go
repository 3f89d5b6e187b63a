package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varcvar-api/internal/config"
	"varcvar-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sub.db"), zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	first := &models.Submission{
		ID:          "a",
		SubmittedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Snapshot: models.ParameterSnapshot{
			Tau: 1, Delta: 22, Alpha: 0.05, D: 10,
			StartDate:     strPtr("2020-01-01"),
			EndDate:       strPtr("2020-12-31"),
			SelectedFunds: []string{},
		},
	}
	second := &models.Submission{
		ID:          "b",
		SubmittedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Forwarded:   true,
		Snapshot: models.ParameterSnapshot{
			Tau: 5, Delta: 66, Alpha: 0.01, D: 3,
			StartDate:     strPtr("2010-03-01"),
			EndDate:       strPtr("2012-03-01"),
			SelectedFunds: []string{"B99999", "B11293"},
		},
	}
	require.NoError(t, r.RecordSubmission(ctx, first))
	require.NoError(t, r.RecordSubmission(ctx, second))

	got, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second, got[0])
	assert.Equal(t, first, got[1])
}

func TestSQLiteRecorder_DuplicateID(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sub.db"), zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	sub := &models.Submission{ID: "dup", SubmittedAt: time.Now(), Snapshot: models.ParameterSnapshot{SelectedFunds: []string{}}}
	require.NoError(t, r.RecordSubmission(ctx, sub))
	assert.Error(t, r.RecordSubmission(ctx, sub))
}

func TestOpen_DefaultsToNoop(t *testing.T) {
	cfg := &config.Config{Recorder: config.RecorderNone}
	rec := Open(context.Background(), cfg, zerolog.Nop())
	_, ok := rec.(*NoopRecorder)
	assert.True(t, ok)
	assert.NoError(t, rec.RecordSubmission(context.Background(), &models.Submission{}))
	assert.NoError(t, rec.Close())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{Recorder: config.RecorderSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")}
	rec := Open(context.Background(), cfg, zerolog.Nop())
	defer rec.Close()
	_, ok := rec.(*SQLiteRecorder)
	assert.True(t, ok)
}
