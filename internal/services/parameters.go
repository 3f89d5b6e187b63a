package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
)

// ErrInvalidParameter marks input no form control could have produced,
// such as a horizon outside the fixed set.
var ErrInvalidParameter = errors.New("invalid parameter")

// RawParameters is form input as text, the way an HTML form or CLI flags
// deliver it. Empty text fields keep their defaults. The numeric fields are
// nil when absent; present but empty text coerces to 0 like the inputs do.
type RawParameters struct {
	Tau           string
	RollingPeriod string
	Alpha         *string
	D             *string
	StartDate     string
	EndDate       string
	SelectedFunds []string
}

// StateFromRaw builds a fresh form state by applying each raw field through
// its update handler. Numeric text is coerced the way the inputs do it: empty
// or unparsable text becomes 0 and fund counts go through FundCount. Dates
// that are empty, unparsable or outside the picker bounds stay unset.
func StateFromRaw(raw RawParameters) (*form.State, []string, error) {
	var req models.ParameterRequest
	var warnings []string

	if v := strings.TrimSpace(raw.Tau); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: tau %q", ErrInvalidParameter, v)
		}
		req.Tau = &n
	}
	if v := strings.TrimSpace(raw.RollingPeriod); v != "" {
		req.RollingPeriod = &v
	}
	if raw.Alpha != nil {
		a, w := CoerceNumber("confidence level", *raw.Alpha)
		req.Alpha = &a
		warnings = append(warnings, w...)
	}
	if raw.D != nil {
		d, w := CoerceNumber("fund count", *raw.D)
		req.D = &d
		warnings = append(warnings, w...)
	}
	if v := strings.TrimSpace(raw.StartDate); v != "" {
		req.StartDate = &v
	}
	if v := strings.TrimSpace(raw.EndDate); v != "" {
		req.EndDate = &v
	}
	for _, f := range raw.SelectedFunds {
		if f = strings.TrimSpace(f); f != "" {
			req.SelectedFunds = append(req.SelectedFunds, f)
		}
	}

	s, w, err := StateFromRequest(req)
	if err != nil {
		return nil, nil, err
	}
	return s, append(warnings, w...), nil
}

// StateFromRequest builds a fresh form state from a JSON request.
func StateFromRequest(req models.ParameterRequest) (*form.State, []string, error) {
	s := form.NewState()
	var warnings []string

	if req.Tau != nil {
		if err := s.SetHorizon(form.Horizon(*req.Tau)); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
	}
	if req.RollingPeriod != nil {
		if err := s.SetRollingPeriod(form.RollingPeriod(*req.RollingPeriod)); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
	}
	if req.Alpha != nil {
		s.SetConfidence(*req.Alpha)
	}
	if req.D != nil {
		s.SetNumFunds(FundCount(*req.D))
	}
	if req.StartDate != nil {
		warnings = append(warnings, ApplyDate("start date", *req.StartDate, s.SetStartDate)...)
	}
	if req.EndDate != nil {
		warnings = append(warnings, ApplyDate("end date", *req.EndDate, s.SetEndDate)...)
	}
	if req.SelectedFunds != nil {
		if err := s.SetSelectedFunds(req.SelectedFunds); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
	}

	return s, append(warnings, Warnings(s)...), nil
}

// Warnings describes values that are accepted into the state but fall
// outside the ranges the controls advertise.
func Warnings(s *form.State) []string {
	var out []string
	if a := s.Confidence(); a < 0 || a > 1 {
		out = append(out, fmt.Sprintf("confidence level %g outside [0, 1]", a))
	}
	if d := s.NumFunds(); d < form.MinFunds || d > form.MaxFunds {
		out = append(out, fmt.Sprintf("fund count %d outside [%d, %d]", d, form.MinFunds, form.MaxFunds))
	}
	if start, ok := s.StartDate(); ok {
		if end, ok := s.EndDate(); ok && start.After(end) {
			out = append(out, "start date is after end date")
		}
	}
	return out
}

// CoerceNumber converts numeric input text. Empty text is 0 without a
// warning; unparsable or non-finite text is 0 with one.
func CoerceNumber(field, v string) (float64, []string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, []string{fmt.Sprintf("%s %q is not a number, using 0", field, v)}
	}
	return n, nil
}

// FundCount converts a numeric fund count to the integer the state holds.
// Counts inside [MinFunds, MaxFunds] truncate toward zero. Counts outside it
// round away from the range so 20.5 stays above the maximum, and anything
// beyond the int32 range is clamped.
func FundCount(d float64) int {
	switch {
	case math.IsNaN(d):
		return 0
	case d > math.MaxInt32:
		return math.MaxInt32
	case d < math.MinInt32:
		return math.MinInt32
	case d > form.MaxFunds:
		return int(math.Ceil(d))
	case d < form.MinFunds:
		return int(math.Floor(d))
	}
	return int(math.Trunc(d))
}

// ApplyDate parses a YYYY-MM-DD value and hands it to set. Unparsable or
// refused dates are reported as warnings and leave the field as it was.
func ApplyDate(field, v string, set func(time.Time) error) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := form.ParseDate(v)
	if err != nil {
		return []string{fmt.Sprintf("%s %q is not a YYYY-MM-DD date, left unset", field, v)}
	}
	if err := set(d); err != nil {
		return []string{fmt.Sprintf("%s %s left unset: %v", field, v, err)}
	}
	return nil
}
