package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type CheckinController struct {
	Logger  *slog.Logger
	Service domain.CheckinService
}

func NewCheckinController(logger *slog.Logger, svc domain.CheckinService) *CheckinController {
	return &CheckinController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckinRequest is the request body for POST /checkin.
type CheckinRequest struct {
	Code string `json:"code"`
}

// Validate implements helpers.Validator.
func (r *CheckinRequest) Validate() []string {
	if strings.TrimSpace(r.Code) == "" {
		return []string{"code is required"}
	}
	return nil
}

// CheckinSuccessResponse is the success response envelope for POST /checkin (200).
type CheckinSuccessResponse struct {
	Data  *domain.CheckinResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CheckIn godoc
// @Summary Check in a ticket at the door
// @Description Resolves the scanned code to a booking and stamps the check-in. Only completed bookings are admitted, and only once.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CheckinRequest true "Scanned ticket code"
// @Success 200 {object} controllers.CheckinSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already checked in)"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable (not eligible)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkin [post]
func (c *CheckinController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.CheckIn(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyCheckedIn):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "ticket already checked in")
		case errors.Is(err, domain.ErrNotEligible):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "ticket not eligible for check-in")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
