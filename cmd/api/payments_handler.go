package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
)

func (cfg *apiConfig) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		CustomerID      string `json:"customerId"`
		PaymentMethodID string `json:"paymentMethodId"`
		TokenAmount     *int64 `json:"tokenAmount"`
		CompanyUUID     string `json:"companyUUID"`
	}

	type response struct {
		ClientSecret  string `json:"clientSecret"`
		Status        string `json:"status"`
		AwardedTokens *int64 `json:"awardedTokens,omitempty"`
	}

	params := parameters{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		cfg.respondWithInvalidBody(w, r)
		return
	}

	result, err := cfg.payments.CreateCharge(r.Context(), bookings.ChargeRequest{
		Amount:          params.Amount,
		Currency:        params.Currency,
		CustomerID:      params.CustomerID,
		PaymentMethodID: params.PaymentMethodID,
		CompanyID:       params.CompanyUUID,
		TokenAmount:     params.TokenAmount,
	})
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response{
		ClientSecret:  result.ClientSecret,
		Status:        result.Status,
		AwardedTokens: result.AwardedTokens,
	})
}

func (cfg *apiConfig) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}

	params := parameters{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		cfg.respondWithInvalidBody(w, r)
		return
	}

	customerID, err := cfg.payments.CreateCustomer(r.Context(), bookings.CustomerRequest{
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	})
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"customerId": customerID})
}

func (cfg *apiConfig) listPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	methods, err := cfg.payments.ListPaymentMethods(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, methods)
}

func (cfg *apiConfig) createSetupIntentHandler(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		CustomerID string `json:"customerId"`
	}

	params := parameters{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		cfg.respondWithInvalidBody(w, r)
		return
	}

	clientSecret, err := cfg.payments.CreateSetupIntent(r.Context(), params.CustomerID)
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}
