package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"unilance/models"
	"unilance/utils"
)

func (srv *Server) InjectRoutes() *chi.Mux {
	cfg := srv.Config.GetConfig()
	r := chi.NewRouter()

	r.Use(srv.Middleware.RequestID())
	r.Use(srv.Middleware.RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(srv.Middleware.SecurityHeaders())
	r.Use(srv.Middleware.CORS())

	r.Get("/healthz", srv.Healthz)

	r.Route("/api", func(api chi.Router) {
		api.Use(srv.Middleware.RateLimit("api", cfg.Server.APIRateLimit))
		api.Use(srv.Middleware.CSRF())

		api.Get("/csrf", srv.Middleware.IssueCSRFToken)
		api.Get("/realtime/status", srv.RealtimeStatus)

		// credential endpoints carry the tighter limit class
		api.Group(func(auth chi.Router) {
			auth.Use(srv.Middleware.RateLimit("auth", cfg.Server.AuthRateLimit))

			auth.Post("/auth/register", srv.AccountHandler.Register)
			auth.Post("/auth/login", srv.AccountHandler.Login)
			auth.Post("/auth/refresh", srv.AccountHandler.Refresh)
			auth.Post("/auth/recover", srv.AccountHandler.Recover)
		})

		// public reads; a valid token widens visibility but is never required
		api.Group(func(public chi.Router) {
			public.Use(srv.Middleware.OptionalAuth())

			public.Get("/profiles/{id}", srv.ProfileHandler.PublicProfile)
			public.Get("/students", srv.ProfileHandler.Students)
			public.Get("/projects", srv.ProjectHandler.List)
			public.Get("/projects/{id}", srv.ProjectHandler.Get)
		})

		// protected
		api.Group(func(protected chi.Router) {
			protected.Use(srv.Middleware.JWTAuthMiddleware())

			protected.Post("/auth/logout", srv.AccountHandler.Logout)

			protected.Get("/me", srv.ProfileHandler.Me)
			protected.Post("/me/onboarding", srv.ProfileHandler.Onboarding)
			protected.Put("/me", srv.ProfileHandler.Update)
			protected.Post("/me/avatar", srv.ProfileHandler.UploadAvatar)
			protected.Delete("/me/avatar", srv.ProfileHandler.RemoveAvatar)

			protected.Get("/notifications", srv.NotificationHandler.List)
			protected.Post("/notifications/{id}/read", srv.NotificationHandler.MarkRead)
			protected.Post("/notifications/read-all", srv.NotificationHandler.MarkAllRead)
			protected.Post("/device-tokens", srv.NotificationHandler.RegisterDeviceToken)
			protected.Delete("/device-tokens/{token}", srv.NotificationHandler.RemoveDeviceToken)

			protected.Get("/projects/{id}/applications", srv.ApplicationHandler.ListForProject)
			protected.Post("/applications/{id}/accept", srv.ApplicationHandler.Accept)
			protected.Post("/applications/{id}/decline", srv.ApplicationHandler.Decline)
			protected.Post("/applications/{id}/withdraw", srv.ApplicationHandler.Withdraw)

			// entrepreneur routes
			protected.Group(func(entrepreneur chi.Router) {
				entrepreneur.Use(srv.Middleware.RequireRole(models.EntrepreneurRole))

				entrepreneur.Post("/projects", srv.ProjectHandler.Create)
				entrepreneur.Get("/me/projects", srv.ProjectHandler.Mine)
				entrepreneur.Put("/projects/{id}", srv.ProjectHandler.Update)
				entrepreneur.Delete("/projects/{id}", srv.ProjectHandler.Archive)
			})

			// student routes
			protected.Group(func(student chi.Router) {
				student.Use(srv.Middleware.RequireRole(models.StudentRole))

				student.Post("/projects/{id}/applications", srv.ApplicationHandler.Apply)
				student.Get("/me/applications", srv.ApplicationHandler.Mine)
			})
		})
	})

	return r
}

// Healthz answers only after the database responds; the realtime state rides
// along so probes can tell a degraded link from a dead process.
func (srv *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := srv.DB.DB().PingContext(r.Context()); err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, err, "database unreachable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"realtime": srv.Realtime.Status().State,
	})
}

func (srv *Server) RealtimeStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, srv.Realtime.Status())
}
