package handlers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
	"varcvar-api/internal/services"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// FormHandler serves the parameter form as server-rendered HTML. Every field
// change posts the whole form back, so each request works on a fresh state.
type FormHandler struct {
	submissions *services.SubmissionService
}

func NewFormHandler(submissions *services.SubmissionService) *FormHandler {
	return &FormHandler{
		submissions: submissions,
	}
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formView struct {
	Horizons        []option
	RollingPeriods  []option
	Delta           int
	Alpha           string
	AlphaStep       string
	D               string
	MinFunds        int
	MaxFunds        int
	StartDate       string
	EndDate         string
	MinDate         string
	MaxDate         string
	Funds           []option
	SelectedSummary string
	FundOrder       string
	CanSubmit       bool
	Warnings        []string
	Error           string
	Submission      *models.Submission
	SnapshotJSON    string
}

// Show handles GET /
func (h *FormHandler) Show(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, newFormView(form.NewState()))
}

// Update handles POST /. action=submit submits the form; anything else
// re-renders it with the derived fields and button state recomputed.
func (h *FormHandler) Update(c *fiber.Ctx) error {
	args := c.Request().PostArgs()
	posted := func(key string) *string {
		if !args.Has(key) {
			return nil
		}
		v := string(args.Peek(key))
		return &v
	}

	raw := services.RawParameters{
		Tau:           c.FormValue("tau"),
		RollingPeriod: c.FormValue("rollingPeriod"),
		Alpha:         posted("alpha"),
		D:             posted("d"),
		StartDate:     c.FormValue("startDate"),
		EndDate:       c.FormValue("endDate"),
	}
	var checked []string
	for _, f := range args.PeekMulti("funds") {
		checked = append(checked, string(f))
	}
	raw.SelectedFunds = selectionOrder(strings.Split(string(args.Peek("fundOrder")), ","), checked)

	state, warnings, err := services.StateFromRaw(raw)
	if err != nil {
		view := newFormView(form.NewState())
		view.Error = err.Error()
		return render(c, fiber.StatusBadRequest, view)
	}

	view := newFormView(state)
	view.Warnings = warnings

	if c.FormValue("action") != "submit" {
		return render(c, fiber.StatusOK, view)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()

	sub, err := h.submissions.Submit(ctx, state)
	if errors.Is(err, form.ErrSubmitDisabled) {
		return render(c, fiber.StatusUnprocessableEntity, view)
	}
	if err != nil {
		view.Error = err.Error()
		return render(c, fiber.StatusInternalServerError, view)
	}

	view.Submission = sub
	if b, err := json.MarshalIndent(sub.Snapshot, "", "  "); err == nil {
		view.SnapshotJSON = string(b)
	}
	return render(c, fiber.StatusOK, view)
}

// selectionOrder lists the checked funds in the order they were picked.
// Checkboxes post in display order, so the previous order rides along in a
// hidden field and newly checked funds go after it.
func selectionOrder(previous, checked []string) []string {
	isChecked := make(map[string]bool, len(checked))
	for _, f := range checked {
		isChecked[f] = true
	}
	var out []string
	seen := make(map[string]bool, len(checked))
	for _, f := range append(previous, checked...) {
		if isChecked[f] && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func newFormView(s *form.State) formView {
	v := formView{
		Delta:           s.RollingDays(),
		Alpha:           strconv.FormatFloat(s.Confidence(), 'f', -1, 64),
		AlphaStep:       strconv.FormatFloat(form.AlphaStep, 'f', -1, 64),
		D:               strconv.Itoa(s.NumFunds()),
		MinFunds:        form.MinFunds,
		MaxFunds:        form.MaxFunds,
		MinDate:         form.MinDate().Format(form.DateLayout),
		MaxDate:         form.MaxDate().Format(form.DateLayout),
		SelectedSummary: strings.Join(s.SelectedFunds(), ", "),
		FundOrder:       strings.Join(s.SelectedFunds(), ","),
		CanSubmit:       s.CanSubmit(),
	}
	for _, hz := range form.Horizons() {
		v.Horizons = append(v.Horizons, option{
			Value:    strconv.Itoa(int(hz)),
			Label:    hz.Label(),
			Selected: hz == s.Horizon(),
		})
	}
	for _, p := range form.RollingPeriods() {
		v.RollingPeriods = append(v.RollingPeriods, option{
			Value:    string(p),
			Label:    string(p),
			Selected: p == s.RollingPeriod(),
		})
	}
	for _, f := range form.Funds() {
		v.Funds = append(v.Funds, option{Value: f, Label: f, Selected: s.IsSelected(f)})
	}
	if d, ok := s.StartDate(); ok {
		v.StartDate = d.Format(form.DateLayout)
	}
	if d, ok := s.EndDate(); ok {
		v.EndDate = d.Format(form.DateLayout)
	}
	return v
}

func render(c *fiber.Ctx, status int, view formView) error {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, view); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
