package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

const maxInviteCodeLength = 64

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// GetStatusSuccessResponse is the success response envelope for GET /invites/{code} (200).
type GetStatusSuccessResponse struct {
	Data  *domain.InviteStatus `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// GetStatus godoc
// @Summary Check an invite code
// @Description Validates the invite code against the roster and reports whether it has already been redeemed. A redeemed code includes a masked booking summary.
// @Tags invites
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} controllers.GetStatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{code} [get]
func (c *InviteController) GetStatus(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" || len(code) > maxInviteCodeLength {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid invite code")
		return
	}

	status, err := c.Service.Status(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCode) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite code not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
