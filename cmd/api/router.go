package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
)

func newRouter(cfg *apiConfig, allowedOrigins []string, production bool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.logger))
	r.Use(RecoveryMiddleware(cfg))
	r.Use(SecurityHeadersMiddleware(production))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthzHandler)

	r.Post("/create-payment-intent", cfg.createPaymentIntentHandler)
	r.Post("/create-stripe-customer", cfg.createCustomerHandler)
	r.Get("/customer/{id}/payment-methods", cfg.listPaymentMethodsHandler)
	r.Post("/create-setup-intent", cfg.createSetupIntentHandler)

	r.Post("/stripe/connect", cfg.startOnboardingHandler)
	r.Get(bookings.ConnectSuccessPath, cfg.connectSuccessHandler)
	r.Get(bookings.ConnectRefreshPath, cfg.connectRefreshHandler)
	r.Get(bookings.ConnectRestartPath, cfg.connectRestartHandler)
	r.Get("/stripe/account-status/{companyUUID}", cfg.accountStatusHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cfg.respondWithError(w, r, http.StatusNotFound, ApiError{
			Code:    "NOT_FOUND",
			Message: "Route not found",
		})
	})

	return r
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
