package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
	"varcvar-api/internal/services"
)

type ParametersHandler struct {
	submissions *services.SubmissionService
}

func NewParametersHandler(submissions *services.SubmissionService) *ParametersHandler {
	return &ParametersHandler{
		submissions: submissions,
	}
}

// Options handles GET /v1/parameters/options
func (h *ParametersHandler) Options(c *fiber.Ctx) error {
	resp := models.OptionsResponse{
		Funds:     form.Funds(),
		MinDate:   form.MinDate().Format(form.DateLayout),
		MaxDate:   form.MaxDate().Format(form.DateLayout),
		MinFunds:  form.MinFunds,
		MaxFunds:  form.MaxFunds,
		AlphaStep: form.AlphaStep,
		Defaults:  form.NewState().Snapshot(),
	}
	for _, hz := range form.Horizons() {
		resp.Horizons = append(resp.Horizons, int(hz))
	}
	for _, p := range form.RollingPeriods() {
		days, _ := p.Days()
		resp.RollingPeriods = append(resp.RollingPeriods, models.RollingPeriodOption{Label: string(p), Days: days})
	}
	return c.JSON(resp)
}

// Validate handles POST /v1/parameters/validate
func (h *ParametersHandler) Validate(c *fiber.Ctx) error {
	state, warnings, err := parseRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	return c.JSON(models.ValidationResponse{
		CanSubmit:     state.CanSubmit(),
		RollingPeriod: string(state.RollingPeriod()),
		Snapshot:      state.Snapshot(),
		Warnings:      warnings,
	})
}

// Submit handles POST /v1/parameters/submit
func (h *ParametersHandler) Submit(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()

	state, _, err := parseRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	sub, err := h.submissions.Submit(ctx, state)
	if errors.Is(err, form.ErrSubmitDisabled) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
			Error:   "Submit disabled",
			Message: "Both dates are required, the start date must not be after the end date, and the fund count must be between 1 and 20",
			Code:    fiber.StatusUnprocessableEntity,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to submit parameters",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetSubmission handles GET /v1/submissions/:id
func (h *ParametersHandler) GetSubmission(c *fiber.Ctx) error {
	sub, ok := h.submissions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Submission not found",
			Code:  fiber.StatusNotFound,
		})
	}
	return c.JSON(sub)
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListSubmissions handles GET /v1/submissions?limit=N
func (h *ParametersHandler) ListSubmissions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid limit",
			Message: fmt.Sprintf("limit must be between 1 and %d", maxListLimit),
			Code:    fiber.StatusBadRequest,
		})
	}

	subs, err := h.submissions.History(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to list submissions",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}
	return c.JSON(fiber.Map{
		"submissions": subs,
	})
}

func parseRequest(c *fiber.Ctx) (*form.State, []string, error) {
	var req models.ParameterRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, err
	}
	return services.StateFromRequest(req)
}

func badRequest(c *fiber.Ctx, err error) error {
	msg := "Invalid request body"
	if errors.Is(err, services.ErrInvalidParameter) {
		msg = "Invalid parameter"
	}
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   msg,
		Message: err.Error(),
		Code:    fiber.StatusBadRequest,
	})
}
