package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the router's cross-cutting configuration.
type Options struct {
	Logger          zerolog.Logger
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup

	// StaticDir, when set, exposes the filesystem store under /static for
	// development setups without an object storage service.
	StaticDir string
}

// NewRouter wires all routes and middleware. Everything under /v1/tracks and
// /v1/playlist requires an authenticated user.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	if opts.StaticDir != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Route("/v1/tracks", func(r chi.Router) {
			r.Post("/", app.TracksConvert)
			r.Get("/", app.TracksList)
			r.Get("/archive", app.TracksArchive)
			r.Get("/{id}/download", app.TracksDownload)
			r.Delete("/{id}", app.TracksDelete)
		})

		r.Post("/v1/playlist", app.PlaylistItems)
	})

	return r
}
