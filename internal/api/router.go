package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/auth"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/metrics"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/photos"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/ratelimit"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// Options wires the router's collaborators. Metrics and Limiter are
// optional.
type Options struct {
	Store  *store.Store
	Codec  *auth.Codec
	Photos photos.Storage

	Metrics   *metrics.Metrics
	Limiter   ratelimit.Limiter
	RateLimit int

	// TrustProxy takes the client address from proxy headers. Without it
	// the rate limit keys on the connection's remote address.
	TrustProxy bool

	Development    bool
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	rs := responder{dev: opts.Development}
	authHandler := &AuthHandler{responder: rs, Store: opts.Store, Codec: opts.Codec, Metrics: opts.Metrics}
	usersHandler := &UsersHandler{responder: rs, Store: opts.Store}
	donationsHandler := &DonationsHandler{responder: rs, Store: opts.Store, Metrics: opts.Metrics}
	inventoryHandler := &InventoryHandler{responder: rs, Store: opts.Store, Photos: opts.Photos, Metrics: opts.Metrics}
	reportsHandler := &ReportsHandler{responder: rs, Store: opts.Store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(LoggingMiddleware)
	r.Use(Recoverer(opts.Development))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(SecurityHeaders)
	r.Use(CORS(opts.AllowedOrigins))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(ratelimit.Middleware(opts.Limiter, opts.RateLimit))
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		})

		// Public.
		r.Get("/health", Health)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(opts.Codec))

			// Any authenticated account.
			r.Group(func(r chi.Router) {
				r.Use(RequireUserOrAdmin)
				r.Post("/users/change-password", usersHandler.ChangePassword)

				r.Post("/donations/received", donationsHandler.CreateDonation)
				r.Get("/donations/received", donationsHandler.ListDonations)
				r.Post("/donations/requests", donationsHandler.CreateRequest)
				r.Get("/donations/requests", donationsHandler.ListRequests)

				r.Get("/inventory", inventoryHandler.List)
				r.Get("/inventory/{id}", inventoryHandler.Get)
				r.Get("/inventory/{id}/photo", inventoryHandler.GetPhoto)
			})

			// Admin only.
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/users", usersHandler.List)
				r.Get("/users/{id}", usersHandler.Get)
				r.Put("/users/{id}", usersHandler.Update)
				r.Delete("/users/{id}", usersHandler.Delete)

				r.Delete("/donations/received/{id}", donationsHandler.DeleteDonation)
				r.Patch("/donations/requests/{id}", donationsHandler.UpdateRequestStatus)
				r.Delete("/donations/requests/{id}", donationsHandler.DeleteRequest)

				r.Post("/inventory", inventoryHandler.Create)
				r.Put("/inventory/{id}", inventoryHandler.Update)
				r.Delete("/inventory/{id}", inventoryHandler.Delete)
				r.Put("/inventory/{id}/photo", inventoryHandler.UploadPhoto)
				r.Delete("/inventory/{id}/photo", inventoryHandler.DeletePhoto)

				r.Get("/reports/donations.xlsx", reportsHandler.Donations)
			})
		})
	})

	if opts.StaticDir != "" {
		r.Get("/*", staticHandler(opts.StaticDir))
	}

	return r
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

// staticHandler serves files from dir, falling back to index.html for paths
// that do not name a file so that client-side routes resolve.
func staticHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/") {
			if _, err := os.Stat(filepath.Join(p, "index.html")); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, index)
	}
}
