package main

import (
	"log/slog"
	"net/http"

	"museumBooker/internal/booking"
	"museumBooker/internal/calendar"
	"museumBooker/internal/config"
	"museumBooker/internal/http-server/handlers/booking/createBooking"
	"museumBooker/internal/http-server/handlers/booking/getBooking"
	"museumBooker/internal/http-server/handlers/booking/listBookings"
	"museumBooker/internal/http-server/handlers/payment/confirmPayment"
	"museumBooker/internal/http-server/handlers/payment/getPayment"
	"museumBooker/internal/http-server/handlers/pricing/getPricing"
	"museumBooker/internal/http-server/handlers/slot/getAvailability"
	"museumBooker/internal/http-server/handlers/slot/getCalendar"
	"museumBooker/internal/http-server/middleware/mwlogger"
	"museumBooker/internal/http-server/middleware/ratelimit"
	"museumBooker/internal/pricing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newRouter(
	log *slog.Logger,
	cfg *config.Config,
	workflow *booking.Workflow,
	cal *calendar.Service,
	catalog *pricing.Catalog,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	if cfg.HTTPServer.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.HTTPServer.RequestTimeout))
	}

	router.Get("/availability/{date}", getAvailability.New(log, cal))
	router.Get("/calendar/{year}/{month}", getCalendar.New(log, cal))
	router.Get("/pricing", getPricing.New(log, catalog))
	router.Get("/bookings", listBookings.New(log, cal, workflow))
	router.Get("/bookings/{booking_id}", getBooking.New(log, workflow))
	router.Get("/payments/{payment_id}", getPayment.New(log, workflow))

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)

	router.Group(func(r chi.Router) {
		r.Use(limiter.Middleware(log))

		r.Post("/bookings", createBooking.New(log, workflow))
		r.Post("/payments", confirmPayment.New(log, workflow))
	})

	return router
}
