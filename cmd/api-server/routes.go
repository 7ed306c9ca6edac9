package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/medicall/docs"
	"github.com/protomem/medicall/internal/media"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (app *application) configureSwagger() {
	docs.SwaggerInfo.Title = "MediCall"
	docs.SwaggerInfo.Description = "Web API - MediCall healthcare staffing marketplace"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmtHTTPAddr("localhost", app.config.httpPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
}

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.handleHealth)
		r.Get("/currency-rate", app.handleCurrencyRate)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.handleRegister)
			r.Post("/login", app.handleLogin)
			r.Post("/token/refresh", app.handleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(app.authenticate, app.requireAuth)

				r.Post("/logout", app.handleLogout)

				r.Get("/profile", app.handleGetProfile)
				r.Put("/profile", app.handleUpdateProfile)
				r.Put("/profile/picture", app.handleUploadPicture)

				r.Get("/worker-profile", app.handleGetWorkerProfile)
				r.Post("/worker-profile", app.handleCreateWorkerProfile)
				r.Put("/worker-profile", app.handleUpdateWorkerProfile)

				r.Get("/hospital-profile", app.handleGetHospitalProfile)
				r.Post("/hospital-profile", app.handleCreateHospitalProfile)
				r.Put("/hospital-profile", app.handleUpdateHospitalProfile)

				r.Get("/workers", app.handleListWorkers)
				r.Get("/hospitals", app.handleListHospitals)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Use(app.authenticate, app.requireAuth)

			r.Get("/", app.handleListShifts)
			r.Post("/", app.handleCreateShift)
			r.Get("/worker", app.handleListWorkerShifts)
			r.Get("/hospital", app.handleListHospitalShifts)
			r.Get("/hospital/export", app.handleExportHospitalShifts)

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", app.handleListMyApplications)
				r.Post("/", app.handleApply)
				r.Get("/hospital", app.handleListHospitalApplications)

				r.Route("/{applicationId}", func(r chi.Router) {
					r.Get("/", app.handleGetMyApplication)
					r.Put("/", app.handleUpdateMyApplication)
					r.Delete("/", app.handleDeleteMyApplication)
					r.Put("/status", app.handleUpdateApplicationStatus)
					r.Patch("/status", app.handleUpdateApplicationStatus)
					r.Post("/approve", app.handleApproveApplication())
					r.Post("/reject", app.handleRejectApplication())
					r.Post("/withdraw", app.handleWithdrawApplication())
				})
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", app.handleListMyReviews)
				r.Post("/", app.handleCreateReview)
				r.Get("/{reviewId}", app.handleGetMyReview)
				r.Put("/{reviewId}", app.handleUpdateMyReview)
				r.Delete("/{reviewId}", app.handleDeleteMyReview)
			})

			r.Route("/{shiftId}", func(r chi.Router) {
				r.Get("/", app.handleGetShift)
				r.Put("/", app.handleUpdateShift)
				r.Patch("/", app.handleUpdateShift)
				r.Delete("/", app.handleDeleteShift)
				r.Get("/applications", app.handleListShiftApplications)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(app.authenticate, app.requireAuth)

			r.Get("/", app.handleListNotifications)
			r.Get("/unread-count", app.handleUnreadCount)
			r.Post("/read-all", app.handleMarkAllNotificationsRead)
			r.Get("/preferences", app.handleGetPreferences)
			r.Put("/preferences", app.handleUpdatePreferences)
			r.Get("/{notificationId}", app.handleGetNotification)
			r.Delete("/{notificationId}", app.handleDeleteNotification)
			r.Post("/{notificationId}/read", app.handleMarkNotificationRead)
		})
	})

	if app.mediaDir != "" {
		fs := http.StripPrefix(media.PublicPrefix, http.FileServer(http.Dir(app.mediaDir)))
		mux.Get(media.PublicPrefix+"/*", fs.ServeHTTP)
	}

	mux.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(
			"http://"+fmtHTTPAddr("localhost", app.config.httpPort)+"/swagger/doc.json",
		), // The url pointing to API definition
	))

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
