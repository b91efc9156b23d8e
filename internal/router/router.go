package router

import (
	"context"
	"net/http"
	"time"

	"dog-adoption-search/internal/domain/auth"
	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/domain/favorites"
	"dog-adoption-search/internal/domain/search"
	"dog-adoption-search/internal/middleware"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/session"

	_ "dog-adoption-search/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Auth     *auth.Service
	Sessions *session.Manager
	Breeds   *dogs.BreedService
	Log      logger.Logger

	// Orígenes del front; vacío => sin CORS.
	AllowedOrigins []string
	CookieSecure   bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(opts.Log))
	r.Use(chimw.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.SessionHeader, middleware.TraceHeader},
			ExposedHeaders:   []string{middleware.TraceHeader},
			AllowCredentials: true, // la sesión viaja en cookie
			MaxAge:           300,
		}))
	}

	r.Use(middleware.SessionContext(opts.Sessions))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	ttl := time.Hour
	if opts.Sessions != nil {
		ttl = opts.Sessions.TTL()
	}

	// Rutas por módulo
	auth.RegisterRoutes(r, opts.Auth, auth.CookieOptions{Secure: opts.CookieSecure, TTL: ttl})
	dogs.RegisterRoutes(r, opts.Breeds, breedSource)
	search.RegisterRoutes(r, coordinator)
	favorites.RegisterRoutes(r, favoritesDeps)

	return r
}

func breedSource(ctx context.Context) (dogs.BreedSource, bool) {
	s, ok := middleware.GetSession(ctx)
	if !ok {
		return nil, false
	}
	return s.API, true
}

func coordinator(ctx context.Context) (*search.Coordinator, bool) {
	s, ok := middleware.GetSession(ctx)
	if !ok {
		return nil, false
	}
	return s.Search, true
}

func favoritesDeps(ctx context.Context) (favorites.Deps, bool) {
	s, ok := middleware.GetSession(ctx)
	if !ok {
		return favorites.Deps{}, false
	}
	return favorites.Deps{
		Store:   s.Favorites,
		Matcher: s.Matcher,
		Lookup:  s.Search.Lookup,
	}, true
}
