package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// SignatureHeader carries the gateway's HMAC-SHA256 hex digest of the raw body.
const SignatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 1 << 20

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.ReconcileService
}

func NewPaymentController(logger *slog.Logger, svc domain.ReconcileService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// webhookEnvelope is the gateway's push payload.
type webhookEnvelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	} `json:"data"`
}

// HandleWebhookSuccessResponse is the success response envelope for POST /webhooks/payment (200).
type HandleWebhookSuccessResponse struct {
	Data  *domain.ReconcileResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// HandleWebhook godoc
// @Summary Receive a payment gateway webhook
// @Description Verifies the signature, deduplicates by event ID, and applies the claimed payment status to the matching booking. Replays and unknown statuses return 200 with applied=false.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 hex digest of the raw body"
// @Param body body controllers.webhookEnvelope true "Gateway event"
// @Success 200 {object} controllers.HandleWebhookSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (bad signature)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no booking for order)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (conflicting terminal status)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/payment [post]
func (c *PaymentController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read body")
		return
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed payload")
		return
	}

	result, err := c.Service.HandleWebhook(r.Context(), domain.WebhookDelivery{
		EventID:       env.EventID,
		EventType:     env.EventType,
		OrderID:       env.Data.OrderID,
		ClaimedStatus: env.Data.Status,
		Signature:     r.Header.Get(SignatureHeader),
		RawPayload:    body,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid signature")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no booking for order")
		case errors.Is(err, domain.ErrDuplicateRedemption):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invite code already redeemed")
		case errors.Is(err, domain.ErrInvalidTransition):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "conflicting payment status")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Poll godoc
// @Summary Poll the gateway for a booking's payment state
// @Description Fetches the order state from the gateway and applies the same transition rules as the webhook path. A still-payable order returns the current status with applied=false.
// @Tags payments
// @Produce json
// @Param reference path string true "Booking reference number"
// @Success 200 {object} controllers.HandleWebhookSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{reference}/payment/poll [post]
func (c *PaymentController) Poll(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.PathValue("reference"))
	if reference == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing reference")
		return
	}

	result, err := c.Service.Poll(r.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "booking not found")
		case errors.Is(err, domain.ErrDuplicateRedemption):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invite code already redeemed")
		case errors.Is(err, domain.ErrInvalidTransition):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "conflicting payment status")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "payment provider unavailable")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
