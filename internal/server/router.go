// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"strings"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/obs"
	"github.com/clubhub/clubhub/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) (http.Handler, error) {
	rc, err := NewRouterConfig(d)
	if err != nil {
		return nil, err
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = ratelimit.Unlimited{}
	}
	if d.ApplyLimiter == nil {
		d.ApplyLimiter = ratelimit.Unlimited{}
	}

	r := chi.NewRouter()
	for _, mw := range obs.AccessLog(d.Log) {
		r.Use(mw)
	}
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.Use(SecurityHeaders)
	r.Use(CORS(d.Config.Server.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/healthz", rc.HealthHandler.Live)
	r.Get("/readyz", rc.HealthHandler.Ready)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	if disk, ok := d.Media.(*media.DiskStore); ok {
		mountUploads(r, d.Config.Media.PublicBaseURL, disk.Dir())
	}

	jsonBody := MaxBodyBytes(d.Config.Server.MaxBodyBytes)
	uploadBody := MaxBodyBytes(d.Config.Server.MaxUploadBytes)
	loginLimit := ratelimit.Middleware(d.LoginLimiter, rc.ClientIP)
	applyLimit := ratelimit.Middleware(d.ApplyLimiter, rc.ClientIP)
	am := rc.Auth

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			ah, ch := rc.AuthHandler, rc.ClubHandler

			r.With(loginLimit, jsonBody).Post("/login", ah.Login)
			r.Get("/clubs", ch.List)
			r.Get("/club/{id}", ch.Get)

			r.Group(func(r chi.Router) {
				r.Use(am.RequireRole(auth.RoleSuperAdmin))
				r.Get("/all-clubs", ch.ListWithAdmins)
				r.With(jsonBody).Post("/register-club", ch.Register)
				r.With(jsonBody).Post("/create-club", ch.Register)
				r.Delete("/user/{id}", ch.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(am.Authenticate)
				r.With(jsonBody).Put("/update-profile", ch.UpdateProfile)
				r.With(uploadBody).Put("/update-logo", ch.UpdateLogo)
				r.With(uploadBody).Put("/update-banner", ch.UpdateBanner)
				r.With(jsonBody).Put("/change-initial-password", ah.ChangeInitialPassword)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			ph := rc.PostHandler
			r.Get("/feed", ph.Feed)
			r.Get("/club/{id}", ph.ByClub)
			r.With(am.Authenticate, uploadBody).Post("/create", ph.Create)
			r.With(am.Authenticate).Delete("/{id}", ph.Delete)
		})

		r.Route("/events", func(r chi.Router) {
			eh := rc.EventHandler
			r.Get("/", eh.List)
			r.With(am.Authenticate).Get("/my-events", eh.Mine)
			r.With(am.Authenticate, jsonBody).Post("/create", eh.Create)
			r.With(am.Authenticate).Delete("/{id}", eh.Delete)
		})

		r.Route("/applications", func(r chi.Router) {
			aph := rc.ApplicationHandler
			r.With(applyLimit, jsonBody).Post("/apply", aph.Apply)
			r.With(am.Authenticate).Get("/my-applications", aph.Mine)
			r.With(am.Authenticate, jsonBody).Put("/{id}/status", aph.UpdateStatus)
		})
	})

	return r, nil
}

// mountUploads serves the disk media store when its public URL is a local path.
func mountUploads(r chi.Router, publicURL, dir string) {
	prefix := strings.TrimRight(publicURL, "/")
	if !strings.HasPrefix(prefix, "/") || prefix == "" {
		return
	}
	fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(dir)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}
