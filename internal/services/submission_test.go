package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
	"varcvar-api/internal/recorder"
)

type memRecorder struct {
	mu   sync.Mutex
	subs []*models.Submission
	err  error
}

func (m *memRecorder) RecordSubmission(_ context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.subs = append(m.subs, sub)
	return nil
}

func (m *memRecorder) Close() error { return nil }

func submittable(t *testing.T) *form.State {
	t.Helper()
	s, _, err := StateFromRaw(RawParameters{D: ptr("10"), StartDate: "2020-01-01", EndDate: "2020-12-31"})
	require.NoError(t, err)
	return s
}

func TestSubmit_LogsSnapshot(t *testing.T) {
	var buf bytes.Buffer
	rec := &memRecorder{}
	svc := NewSubmissionService(zerolog.New(&buf), rec, nil, time.Hour)

	sub, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.Forwarded)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "parameter snapshot", line["message"])
	assert.Equal(t, float64(1), line["tau"])
	assert.Equal(t, float64(22), line["delta"])
	assert.Equal(t, 0.05, line["alpha"])
	assert.Equal(t, float64(10), line["d"])
	assert.Equal(t, "2020-01-01", line["startDate"])
	assert.Equal(t, "2020-12-31", line["endDate"])
	assert.Equal(t, []any{}, line["selectedFunds"])

	require.Len(t, rec.subs, 1)
	assert.Equal(t, sub, rec.subs[0])

	got, ok := svc.Get(sub.ID)
	require.True(t, ok)
	assert.Equal(t, sub, got)
}

func TestSubmit_Disabled(t *testing.T) {
	var buf bytes.Buffer
	rec := &memRecorder{}
	svc := NewSubmissionService(zerolog.New(&buf).Level(zerolog.InfoLevel), rec, nil, time.Hour)

	_, err := svc.Submit(context.Background(), form.NewState())
	assert.ErrorIs(t, err, form.ErrSubmitDisabled)
	assert.Empty(t, rec.subs)
	assert.Empty(t, buf.String())
	assert.Empty(t, svc.Recent())
}

func TestSubmit_RecorderFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := NewSubmissionService(zerolog.New(&buf), &memRecorder{err: errors.New("disk full")}, nil, time.Hour)

	sub, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	assert.NotNil(t, sub)
	assert.Contains(t, buf.String(), "failed to record submission")
	assert.Contains(t, buf.String(), "disk full")
}

func TestSubmit_WarnsOnAlphaOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	svc := NewSubmissionService(zerolog.New(&buf), nil, nil, time.Hour)
	s := submittable(t)
	s.SetConfidence(95)

	sub, err := svc.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 95.0, sub.Snapshot.Alpha)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "confidence level 95 outside [0, 1]")
}

func TestSubmit_ForwardsToBackend(t *testing.T) {
	var got models.ParameterSnapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/var-cvar", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewSubmissionService(zerolog.Nop(), nil, NewBackendClient(srv.URL), time.Hour)
	sub, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	assert.True(t, sub.Forwarded)
	assert.Equal(t, sub.Snapshot, got)
}

func TestSubmit_BackendFailureDoesNotFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not yet", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	svc := NewSubmissionService(zerolog.New(&buf), nil, NewBackendClient(srv.URL), time.Hour)
	sub, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	assert.False(t, sub.Forwarded)
	assert.True(t, strings.Contains(buf.String(), "backend returned 503"))
}

func TestRecentAndPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSubmissionService(zerolog.Nop(), nil, nil, time.Minute)
	svc.now = func() time.Time { return now }
	svc.recent.now = svc.now

	first, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	second, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)

	recent := svc.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)
	assert.Equal(t, first.ID, recent[1].ID)

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, svc.Prune())
	_, ok := svc.Get(first.ID)
	assert.False(t, ok)
	_, ok = svc.Get(second.ID)
	assert.True(t, ok)
}

func TestHistory_FromSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	rec, err := recorder.NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	svc := NewSubmissionService(zerolog.Nop(), rec, nil, time.Hour)

	first, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), submittable(t))
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	// a fresh service has an empty window but reads the recorded history
	rec, err = recorder.NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	svc = NewSubmissionService(zerolog.Nop(), rec, nil, time.Hour)
	t.Cleanup(func() { _ = svc.Close() })
	assert.Empty(t, svc.Recent())

	subs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Equal(t, first.ID, subs[1].ID)
	assert.Equal(t, 10, subs[0].Snapshot.D)

	subs, err = svc.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestHistory_FallsBackToWindow(t *testing.T) {
	svc := NewSubmissionService(zerolog.Nop(), &memRecorder{}, nil, time.Hour)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), submittable(t))
		require.NoError(t, err)
	}

	subs, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}
