package main

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/pages"
)

func (cfg *apiConfig) startOnboardingHandler(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		CompanyUUID string `json:"companyUUID"`
	}

	params := parameters{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		cfg.respondWithInvalidBody(w, r)
		return
	}

	link, err := cfg.connect.StartOnboarding(r.Context(), params.CompanyUUID)
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"url": link.URL})
}

func (cfg *apiConfig) accountStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := cfg.connect.GetStatus(r.Context(), chi.URLParam(r, "companyUUID"))
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func (cfg *apiConfig) connectSuccessHandler(w http.ResponseWriter, r *http.Request) {
	cfg.renderPage(w, r, pages.ConnectSuccess, pages.ConnectSuccessData{
		CompanyUUID: r.URL.Query().Get("companyUUID"),
	})
}

func (cfg *apiConfig) connectRefreshHandler(w http.ResponseWriter, r *http.Request) {
	data := pages.ConnectRefreshData{CompanyUUID: r.URL.Query().Get("companyUUID")}
	if data.CompanyUUID != "" {
		q := url.Values{}
		q.Set("companyUUID", data.CompanyUUID)
		data.RestartURL = bookings.ConnectRestartPath + "?" + q.Encode()
	}
	cfg.renderPage(w, r, pages.ConnectRefresh, data)
}

// connectRestartHandler is the browser-facing way back into onboarding from an
// expired link: it issues a fresh link and redirects to it.
func (cfg *apiConfig) connectRestartHandler(w http.ResponseWriter, r *http.Request) {
	link, err := cfg.connect.StartOnboarding(r.Context(), r.URL.Query().Get("companyUUID"))
	if err != nil {
		cfg.respondWithServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, link.URL, http.StatusSeeOther)
}

func (cfg *apiConfig) renderPage(w http.ResponseWriter, r *http.Request, key string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := cfg.pages.Render(w, key, data); err != nil {
		cfg.logger.Error("Failed to render page", zap.String("page", key), zap.Error(err))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}
