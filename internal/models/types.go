package models

import "time"

// ParameterSnapshot is the record emitted when the parameter form is submitted
type ParameterSnapshot struct {
	Tau           int      `json:"tau" firestore:"tau"`                     // time horizon in years
	Delta         int      `json:"delta" firestore:"delta"`                 // rolling window in trading days
	Alpha         float64  `json:"alpha" firestore:"alpha"`                 // confidence level
	D             int      `json:"d" firestore:"d"`                         // number of funds
	StartDate     *string  `json:"startDate" firestore:"startDate"`         // YYYY-MM-DD, null when unset
	EndDate       *string  `json:"endDate" firestore:"endDate"`             // YYYY-MM-DD, null when unset
	SelectedFunds []string `json:"selectedFunds" firestore:"selectedFunds"` // never null
}

// ParameterRequest carries raw form input. Absent fields keep their defaults.
type ParameterRequest struct {
	Tau           *int     `json:"tau,omitempty"`
	RollingPeriod *string  `json:"rollingPeriod,omitempty"`
	Alpha         *float64 `json:"alpha,omitempty"`
	D             *float64 `json:"d,omitempty"`
	StartDate     *string  `json:"startDate,omitempty"`
	EndDate       *string  `json:"endDate,omitempty"`
	SelectedFunds []string `json:"selectedFunds,omitempty"`
}

// Submission is a snapshot accepted by the submission service
type Submission struct {
	ID          string            `json:"id" firestore:"id"`
	Snapshot    ParameterSnapshot `json:"snapshot" firestore:"snapshot"`
	SubmittedAt time.Time         `json:"submittedAt" firestore:"submittedAt"`
	Forwarded   bool              `json:"forwarded" firestore:"forwarded"`
}

// ValidationResponse reports the submit-enablement state for a request
type ValidationResponse struct {
	CanSubmit     bool              `json:"canSubmit"`
	RollingPeriod string            `json:"rollingPeriod"`
	Snapshot      ParameterSnapshot `json:"snapshot"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// RollingPeriodOption is one entry of the rolling-period table
type RollingPeriodOption struct {
	Label string `json:"label"`
	Days  int    `json:"days"`
}

// OptionsResponse describes the fixed choices and bounds of the form
type OptionsResponse struct {
	Horizons       []int                 `json:"horizons"`
	RollingPeriods []RollingPeriodOption `json:"rollingPeriods"`
	Funds          []string              `json:"funds"`
	MinDate        string                `json:"minDate"`
	MaxDate        string                `json:"maxDate"`
	MinFunds       int                   `json:"minFunds"`
	MaxFunds       int                   `json:"maxFunds"`
	AlphaStep      float64               `json:"alphaStep"`
	Defaults       ParameterSnapshot     `json:"defaults"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
