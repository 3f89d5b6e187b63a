package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestStateFromRaw_Empty(t *testing.T) {
	s, warnings, err := StateFromRaw(RawParameters{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, form.NewState().Snapshot(), s.Snapshot())
	assert.False(t, s.CanSubmit())
}

func TestStateFromRaw_Scenario(t *testing.T) {
	s, warnings, err := StateFromRaw(RawParameters{
		Tau:           "3",
		RollingPeriod: "Quarterly",
		Alpha:         ptr("0.01"),
		D:             ptr("10"),
		StartDate:     "2020-01-01",
		EndDate:       "2020-12-31",
		SelectedFunds: []string{"B55333", "", "B11293"},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, s.CanSubmit())

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Tau)
	assert.Equal(t, 66, snap.Delta)
	assert.Equal(t, 0.01, snap.Alpha)
	assert.Equal(t, 10, snap.D)
	assert.Equal(t, []string{"B55333", "B11293"}, snap.SelectedFunds)
}

func TestStateFromRaw_NumericCoercion(t *testing.T) {
	s, warnings, err := StateFromRaw(RawParameters{Alpha: ptr("abc"), D: ptr("7.9")})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Confidence())
	assert.Equal(t, 7, s.NumFunds())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "confidence level")

	s, warnings, err = StateFromRaw(RawParameters{D: ptr("NaN")})
	require.NoError(t, err)
	assert.Equal(t, 0, s.NumFunds())
	assert.Len(t, warnings, 2) // not a number, then outside [1, 20]
}

func TestStateFromRaw_ClearedNumbersAreZero(t *testing.T) {
	for _, v := range []string{"", " "} {
		s, _, err := StateFromRaw(RawParameters{
			Alpha:     ptr(v),
			D:         ptr(v),
			StartDate: "2020-01-01",
			EndDate:   "2020-12-31",
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.Confidence(), "alpha %q", v)
		assert.Equal(t, 0, s.NumFunds(), "d %q", v)
		assert.False(t, s.CanSubmit(), "d %q", v)
	}

	s, _, err := StateFromRaw(RawParameters{})
	require.NoError(t, err)
	assert.Equal(t, form.DefaultConfidence, s.Confidence())
	assert.Equal(t, form.DefaultNumFunds, s.NumFunds())
}

func TestFundCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{5, 5},
		{5.5, 5},
		{1, 1},
		{20, 20},
		{20.5, 21},
		{0.5, 0},
		{-0.5, -1},
		{1e19, math.MaxInt32},
		{-1e19, math.MinInt32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FundCount(tt.in), "FundCount(%g)", tt.in)
	}
}

func TestStateFromRequest_FractionalCountsOutsideRange(t *testing.T) {
	for _, d := range []float64{20.5, 0.5, 1e19} {
		s, warnings, err := StateFromRequest(models.ParameterRequest{
			D:         ptr(d),
			StartDate: ptr("2020-01-01"),
			EndDate:   ptr("2020-12-31"),
		})
		require.NoError(t, err)
		assert.False(t, s.CanSubmit(), "d=%g", d)
		require.Len(t, warnings, 1, "d=%g", d)
		assert.Contains(t, warnings[0], "fund count")
	}

	s, _, err := StateFromRequest(models.ParameterRequest{
		D:         ptr(1e19),
		StartDate: ptr("2020-01-01"),
		EndDate:   ptr("2020-12-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, s.Snapshot().D)
}

func TestStateFromRaw_BadDatesStayUnset(t *testing.T) {
	s, warnings, err := StateFromRaw(RawParameters{StartDate: "01/02/2020", EndDate: "2030-01-01"})
	require.NoError(t, err)
	_, ok := s.StartDate()
	assert.False(t, ok)
	_, ok = s.EndDate()
	assert.False(t, ok)
	assert.Len(t, warnings, 2)
}

func TestStateFromRaw_InvalidEnums(t *testing.T) {
	tests := []RawParameters{
		{Tau: "2"},
		{Tau: "one"},
		{RollingPeriod: "Yearly"},
		{SelectedFunds: []string{"AAPL"}},
	}
	for _, raw := range tests {
		_, _, err := StateFromRaw(raw)
		assert.ErrorIs(t, err, ErrInvalidParameter, "%+v", raw)
	}
}

func TestStateFromRequest_PermissiveAlpha(t *testing.T) {
	s, warnings, err := StateFromRequest(models.ParameterRequest{
		Alpha:     ptr(1.5),
		D:         ptr(10.0),
		StartDate: ptr("2020-01-01"),
		EndDate:   ptr("2020-12-31"),
	})
	require.NoError(t, err)
	assert.True(t, s.CanSubmit())
	assert.Equal(t, 1.5, s.Snapshot().Alpha)
	assert.Equal(t, []string{"confidence level 1.5 outside [0, 1]"}, warnings)
}

func TestWarnings(t *testing.T) {
	s, _, err := StateFromRequest(models.ParameterRequest{
		D:         ptr(25.0),
		StartDate: ptr("2021-06-01"),
		EndDate:   ptr("2021-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fund count 25 outside [1, 20]",
		"start date is after end date",
	}, Warnings(s))
}
