package controllers

import (
	"log/slog"
	"net/http"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type AdminController struct {
	Logger    *slog.Logger
	Bookings  domain.BookingService
	Reconcile domain.ReconcileService
}

func NewAdminController(logger *slog.Logger, bookings domain.BookingService, reconcile domain.ReconcileService) *AdminController {
	return &AdminController{
		Logger:    logger,
		Bookings:  bookings,
		Reconcile: reconcile,
	}
}

// ListBookingsData is the data payload for GET /admin/bookings.
type ListBookingsData struct {
	Bookings   []*domain.Booking      `json:"bookings"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListBookingsSuccessResponse is the success response envelope for GET /admin/bookings (200).
type ListBookingsSuccessResponse struct {
	Data  *ListBookingsData `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListBookings godoc
// @Summary List bookings
// @Description Returns bookings newest first, paginated.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} controllers.ListBookingsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/bookings [get]
func (c *AdminController) ListBookings(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)

	bookings, total, err := c.Bookings.List(r.Context(), params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, &ListBookingsData{
		Bookings:   bookings,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// PruneLedgerData is the data payload for POST /admin/webhook-events/prune.
type PruneLedgerData struct {
	Deleted int64 `json:"deleted"`
}

// PruneLedgerSuccessResponse is the success response envelope for POST /admin/webhook-events/prune (200).
type PruneLedgerSuccessResponse struct {
	Data  *PruneLedgerData  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PruneLedger godoc
// @Summary Prune the webhook event ledger
// @Description Deletes processed webhook events older than the retention window.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.PruneLedgerSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/webhook-events/prune [post]
func (c *AdminController) PruneLedger(w http.ResponseWriter, r *http.Request) {
	deleted, err := c.Reconcile.PruneLedger(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, &PruneLedgerData{Deleted: deleted})
}
