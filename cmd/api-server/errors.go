package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/protomem/medicall/internal/ctxstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		tid     = ctxstore.FromOr(r.Context(), ctxstore.TraceIDKey, "")
		trace   = string(debug.Stack())
	)

	requestAttrs := slog.Group("request", "method", method, "url", url, ctxstore.TraceIDKey.String(), tid)
	app.serverLogger().Error(message, requestAttrs, "trace", trace)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	if message != "" {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	if !app.config.production() {
		message = fmt.Sprintf("%s: %s", message, err.Error())
	}
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusBadRequest, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	headers := make(http.Header)
	headers.Set("WWW-Authenticate", "Bearer")

	app.errorMessage(w, r, http.StatusUnauthorized, message, headers)
}

// serviceError maps errors returned by the services onto responses.
// Conflicts are reported as 400 like any other invalid input.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case model.IsValidation(err):
		app.badRequest(w, r, err)
	case errors.Is(err, model.ErrExists),
		errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrInactive):
		app.badRequest(w, r, err)
	case errors.Is(err, model.ErrNotFound):
		app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, model.ErrForbidden):
		app.errorMessage(w, r, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, model.ErrInvalidToken):
		app.requestLogger(r).Debug("token rejected", "error", err)
		app.unauthorized(w, r, model.ErrInvalidToken.Error())
	default:
		app.serverError(w, r, err)
	}
}
