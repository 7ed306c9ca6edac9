package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/protomem/medicall/internal/ctxstore"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/response"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		w.Header().Set("X-Trace-Id", tid)
		ctx := ctxstore.With(r.Context(), ctxstore.TraceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), ctxstore.TraceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, ctxstore.TraceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-Id"},
		AllowCredentials: false,
	}).Handler(next)
}

// authenticate attaches the caller when a bearer token is present. A bad
// token is rejected here; a missing one is left to requireAuth.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			app.unauthorized(w, r, "invalid authorization header")
			return
		}

		caller, err := app.accounts.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		ctx := ctxstore.With(r.Context(), ctxstore.CallerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxstore.From[model.Caller](r.Context(), ctxstore.CallerKey); !ok {
			app.unauthorized(w, r, "authentication credentials were not provided")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func callerFrom(r *http.Request) model.Caller {
	return ctxstore.MustFrom[model.Caller](r.Context(), ctxstore.CallerKey)
}

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	return app.logger.With(ctxstore.TraceIDKey.String(), ctxstore.FromOr(r.Context(), ctxstore.TraceIDKey, ""))
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
