package main

import (
	"net/http"

	"github.com/protomem/medicall/internal/response"
)

// Handle Health
// @Summary Health check
// @Description Check if the server is up and running
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "healthy"}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Currency Rate
// @Summary Currency rate
// @Description Exchange rate between two currencies; falls back to a static table when providers are unreachable
// @Tags api
// @Produce json
// @Param from query string false "Source currency" default(USD)
// @Param to query string false "Target currency" default(USD)
// @Success 200 {object} rates.Quote
// @Router /currency-rate [get]
func (app *application) handleCurrencyRate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	quote := app.rates.Lookup(r.Context(), query.Get("from"), query.Get("to"))

	if err := response.JSON(w, http.StatusOK, quote); err != nil {
		app.serverError(w, r, err)
	}
}
