package form

import (
	"strconv"
	"time"
)

// Horizon is the VaR time horizon in years.
type Horizon int

const (
	HorizonOneYear    Horizon = 1
	HorizonThreeYears Horizon = 3
	HorizonFiveYears  Horizon = 5
)

// Horizons lists the selectable horizons in display order.
func Horizons() []Horizon {
	return []Horizon{HorizonOneYear, HorizonThreeYears, HorizonFiveYears}
}

// Valid reports whether h is one of the selectable horizons.
func (h Horizon) Valid() bool {
	switch h {
	case HorizonOneYear, HorizonThreeYears, HorizonFiveYears:
		return true
	}
	return false
}

// Label is the text shown for h in the horizon control.
func (h Horizon) Label() string {
	if h == HorizonOneYear {
		return "1 Year"
	}
	return strconv.Itoa(int(h)) + " Years"
}

// RollingPeriod labels the rolling window used for the return series.
type RollingPeriod string

const (
	Daily     RollingPeriod = "Daily"
	Weekly    RollingPeriod = "Weekly"
	Monthly   RollingPeriod = "Monthly"
	Quarterly RollingPeriod = "Quarterly"
)

// RollingPeriods lists the rolling-period labels in display order.
func RollingPeriods() []RollingPeriod {
	return []RollingPeriod{Daily, Weekly, Monthly, Quarterly}
}

// Days returns the trading-day count for p. ok is false for unknown labels.
func (p RollingPeriod) Days() (days int, ok bool) {
	switch p {
	case Daily:
		return 1, true
	case Weekly:
		return 5, true
	case Monthly:
		return 22, true
	case Quarterly:
		return 66, true
	}
	return 0, false
}

// Funds returns the selectable fund tickers in display order.
func Funds() []string {
	return []string{
		"B11293",
		"B00774",
		"B15709",
		"B13835",
		"B07347",
		"B90012",
		"B55333",
		"B88888",
		"B99999",
	}
}

// IsKnownFund reports whether ticker is in the fund list.
func IsKnownFund(ticker string) bool {
	for _, f := range Funds() {
		if f == ticker {
			return true
		}
	}
	return false
}

// DateLayout is the calendar-date format used in snapshots and inputs.
const DateLayout = "2006-01-02"

// MinDate is the earliest selectable start or end date.
func MinDate() time.Time { return time.Date(2006, time.January, 2, 0, 0, 0, 0, time.UTC) }

// MaxDate is the latest selectable start or end date.
func MaxDate() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) }

// Fund-count bounds for submission. The count input advertises the same range.
const (
	MinFunds = 1
	MaxFunds = 20
)

// AlphaStep is the increment advertised by the confidence-level input.
const AlphaStep = 0.01

const (
	DefaultHorizon       = HorizonOneYear
	DefaultRollingPeriod = Monthly
	DefaultConfidence    = 0.05
	DefaultNumFunds      = 5
)
