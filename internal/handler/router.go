package handler

import (
	"net/http"

	"github.com/aditya/worknearby/internal/middleware"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

// API groups every handler mounted under /v1.
type API struct {
	Auth        *AuthHandler
	Workers     *WorkerHandler
	Admin       *AdminHandler
	Bookings    *BookingHandler
	Events      *SSEHandler
	Users       *UserHandler
	Preferences *PreferencesHandler

	Sessions middleware.SessionVerifier
	// AdminRequiresAuth puts the admin routes behind RequireSession.
	AdminRequiresAuth bool
}

// Mount registers the v1 routes on r.
func (a *API) Mount(r chi.Router) {
	requireSession := middleware.RequireSession(a.Sessions)

	r.Route("/v1", func(r chi.Router) {
		a.Auth.RegisterRoutes(r)
		a.Workers.RegisterRoutes(r)
		a.Users.RegisterRoutes(r)
		a.Preferences.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			a.Auth.RegisterProtectedRoutes(r)
			a.Workers.RegisterProtectedRoutes(r)
			a.Users.RegisterProtectedRoutes(r)
			a.Bookings.RegisterRoutes(r)
			a.Events.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			if a.AdminRequiresAuth {
				r.Use(requireSession)
			}
			a.Admin.RegisterRoutes(r)
		})
	})
}

// Health reports liveness plus the state of optional dependencies.
func Health(checks map[string]func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]string, len(checks))
		status := http.StatusOK
		for name, check := range checks {
			if err := check(r); err != nil {
				services[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			services[name] = "up"
		}

		body := map[string]interface{}{"status": "ok", "services": services}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		utils.JSON(w, status, body)
	}
}
