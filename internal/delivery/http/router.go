package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"inviteticketing/internal/delivery/http/controllers"
	"inviteticketing/internal/delivery/http/middleware"
	"inviteticketing/internal/domain"
)

// Controllers groups the route handlers wired by NewRouter.
type Controllers struct {
	Invite  *controllers.InviteController
	Booking *controllers.BookingController
	Payment *controllers.PaymentController
	Checkin *controllers.CheckinController
	Auth    *controllers.AuthController
	Admin   *controllers.AdminController
	Health  *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(logger *slog.Logger, verifier domain.TokenVerifier, c Controllers) *http.ServeMux {
	mux := http.NewServeMux()
	staff := middleware.RequireStaff(verifier, logger)

	// Public
	mux.HandleFunc("GET /invites/{code}", c.Invite.GetStatus)
	mux.HandleFunc("POST /bookings", c.Booking.Create)
	mux.HandleFunc("GET /bookings/{reference}", c.Booking.GetStatus)
	mux.HandleFunc("POST /bookings/{reference}/payment/poll", c.Payment.Poll)

	// Gateway push
	mux.HandleFunc("POST /webhooks/payment", c.Payment.HandleWebhook)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Staff
	mux.HandleFunc("POST /checkin", staff(c.Checkin.CheckIn))
	mux.HandleFunc("GET /admin/bookings", staff(c.Admin.ListBookings))
	mux.HandleFunc("POST /admin/webhook-events/prune", staff(c.Admin.PruneLedger))

	// Operational
	mux.HandleFunc("GET /healthz", c.Health.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
