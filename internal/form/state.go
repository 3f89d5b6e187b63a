// Package form holds the VaR/CVaR parameter form: its state, the update
// handlers for each control, the submit-enablement predicate and the snapshot
// produced on submission. It performs no I/O.
package form

import (
	"errors"
	"fmt"
	"time"

	"varcvar-api/internal/models"
)

var (
	ErrUnknownHorizon       = errors.New("unknown time horizon")
	ErrUnknownRollingPeriod = errors.New("unknown rolling period")
	ErrUnknownFund          = errors.New("unknown fund ticker")
	ErrDateOutOfRange       = errors.New("date outside selectable range")
	ErrSubmitDisabled       = errors.New("submit is disabled")
)

// rolling pairs the selected label with its derived day count. It is only
// ever produced by rollingTransition.
type rolling struct {
	label RollingPeriod
	days  int
}

func rollingTransition(label RollingPeriod) (rolling, error) {
	days, ok := label.Days()
	if !ok {
		return rolling{}, fmt.Errorf("%w: %q", ErrUnknownRollingPeriod, label)
	}
	return rolling{label: label, days: days}, nil
}

// State is the transient state of one form session. The zero value is not
// usable; start a session with NewState.
type State struct {
	horizon    Horizon
	rolling    rolling
	confidence float64
	numFunds   int
	start      time.Time // zero when unset
	end        time.Time // zero when unset
	selected   []string
}

// NewState returns a form populated with the defaults.
func NewState() *State {
	r, _ := rollingTransition(DefaultRollingPeriod)
	return &State{
		horizon:    DefaultHorizon,
		rolling:    r,
		confidence: DefaultConfidence,
		numFunds:   DefaultNumFunds,
		selected:   []string{},
	}
}

func (s *State) Horizon() Horizon             { return s.horizon }
func (s *State) RollingPeriod() RollingPeriod { return s.rolling.label }
func (s *State) RollingDays() int             { return s.rolling.days }
func (s *State) Confidence() float64          { return s.confidence }
func (s *State) NumFunds() int                { return s.numFunds }

// StartDate returns the start date and whether it is set.
func (s *State) StartDate() (time.Time, bool) { return s.start, !s.start.IsZero() }

// EndDate returns the end date and whether it is set.
func (s *State) EndDate() (time.Time, bool) { return s.end, !s.end.IsZero() }

// SelectedFunds returns the selected tickers in selection order.
func (s *State) SelectedFunds() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// IsSelected reports whether ticker is currently selected.
func (s *State) IsSelected(ticker string) bool {
	return indexOf(s.selected, ticker) >= 0
}

func (s *State) SetHorizon(h Horizon) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownHorizon, h)
	}
	s.horizon = h
	return nil
}

// SetRollingPeriod selects a rolling period and rewrites the derived day
// count in the same assignment.
func (s *State) SetRollingPeriod(label RollingPeriod) error {
	r, err := rollingTransition(label)
	if err != nil {
		return err
	}
	s.rolling = r
	return nil
}

// SetConfidence accepts any value; the [0,1] range is only advertised.
func (s *State) SetConfidence(alpha float64) { s.confidence = alpha }

// SetNumFunds accepts any value; out-of-range counts disable submission.
func (s *State) SetNumFunds(d int) { s.numFunds = d }

func (s *State) SetStartDate(t time.Time) error {
	d, err := pickDate(t)
	if err != nil {
		return err
	}
	s.start = d
	return nil
}

func (s *State) SetEndDate(t time.Time) error {
	d, err := pickDate(t)
	if err != nil {
		return err
	}
	s.end = d
	return nil
}

func (s *State) ClearStartDate() { s.start = time.Time{} }
func (s *State) ClearEndDate()   { s.end = time.Time{} }

// ToggleFund selects ticker, or deselects it when already selected.
func (s *State) ToggleFund(ticker string) error {
	if !IsKnownFund(ticker) {
		return fmt.Errorf("%w: %q", ErrUnknownFund, ticker)
	}
	next := make([]string, 0, len(s.selected)+1)
	if i := indexOf(s.selected, ticker); i >= 0 {
		next = append(next, s.selected[:i]...)
		next = append(next, s.selected[i+1:]...)
	} else {
		next = append(next, s.selected...)
		next = append(next, ticker)
	}
	s.selected = next
	return nil
}

// SetSelectedFunds replaces the whole selection. Duplicates are dropped,
// keeping the first occurrence.
func (s *State) SetSelectedFunds(tickers []string) error {
	next := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if !IsKnownFund(t) {
			return fmt.Errorf("%w: %q", ErrUnknownFund, t)
		}
		if indexOf(next, t) < 0 {
			next = append(next, t)
		}
	}
	s.selected = next
	return nil
}

// CanSubmit reports whether the submit action is enabled: both dates set,
// start not after end, and the fund count within [MinFunds, MaxFunds].
func (s *State) CanSubmit() bool {
	if s.start.IsZero() || s.end.IsZero() {
		return false
	}
	if s.start.After(s.end) {
		return false
	}
	return s.numFunds >= MinFunds && s.numFunds <= MaxFunds
}

// Snapshot assembles the output record for the current state.
func (s *State) Snapshot() models.ParameterSnapshot {
	return models.ParameterSnapshot{
		Tau:           int(s.horizon),
		Delta:         s.rolling.days,
		Alpha:         s.confidence,
		D:             s.numFunds,
		StartDate:     formatDate(s.start),
		EndDate:       formatDate(s.end),
		SelectedFunds: s.SelectedFunds(),
	}
}

// Submit returns the snapshot, or ErrSubmitDisabled when CanSubmit is false.
func (s *State) Submit() (models.ParameterSnapshot, error) {
	if !s.CanSubmit() {
		return models.ParameterSnapshot{}, ErrSubmitDisabled
	}
	return s.Snapshot(), nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, time.UTC)
}

// pickDate drops the time of day and enforces the picker bounds.
func pickDate(t time.Time) (time.Time, error) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if day.Before(MinDate()) || day.After(MaxDate()) {
		return time.Time{}, fmt.Errorf("%w: %s not in [%s, %s]", ErrDateOutOfRange,
			day.Format(DateLayout), MinDate().Format(DateLayout), MaxDate().Format(DateLayout))
	}
	return day, nil
}

func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	v := t.Format(DateLayout)
	return &v
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
