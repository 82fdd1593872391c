package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	InviteCode    string          `json:"invite_code"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	TicketType    string          `json:"ticket_type"`
	TicketCount   int             `json:"ticket_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Validate implements helpers.Validator. The service re-validates; this catches
// the obviously empty body before it reaches the gateway.
func (r *CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.InviteCode) == "" {
		errs = append(errs, "invite_code is required")
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		errs = append(errs, "customer_name is required")
	}
	if strings.TrimSpace(r.CustomerEmail) == "" {
		errs = append(errs, "customer_email is required")
	}
	if strings.TrimSpace(r.TicketType) == "" {
		errs = append(errs, "ticket_type is required")
	}
	if r.TicketCount < 1 {
		errs = append(errs, "ticket_count must be at least 1")
	}
	return errs
}

// CreateBookingSuccessResponse is the success response envelope for POST /bookings (201).
type CreateBookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create a booking
// @Description Validates the invite code, opens a payment order with the gateway, and persists a pending booking with a fresh reference number.
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body controllers.CreateBookingRequest true "Booking details"
// @Success 201 {object} controllers.CreateBookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown invite code)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (code already redeemed)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (payment provider unavailable)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := c.Service.Create(r.Context(), domain.BookingDraft{
		InviteCode:    req.InviteCode,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		TicketType:    req.TicketType,
		TicketCount:   req.TicketCount,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidCode):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite code not found")
		case errors.Is(err, domain.ErrDuplicateRedemption):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invite code already redeemed")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "payment provider unavailable")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, b)
}

// GetStatusBookingSuccessResponse is the success response envelope for GET /bookings/{reference} (200).
type GetStatusBookingSuccessResponse struct {
	Data  *domain.BookingStatus `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// GetStatus godoc
// @Summary Get booking status
// @Description Returns the payment and check-in status for a booking reference. References are case-insensitive.
// @Tags bookings
// @Produce json
// @Param reference path string true "Booking reference number"
// @Success 200 {object} controllers.GetStatusBookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{reference} [get]
func (c *BookingController) GetStatus(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.PathValue("reference"))
	if reference == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing reference")
		return
	}

	status, err := c.Service.GetStatus(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "booking not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
