package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/healthsync/healthsync/internal/logging"
)

const (
	authBasePath   = "/auth"
	healthBasePath = "/health"

	registerSubPath = "/register"
	loginSubPath    = "/login"
	recordsSubPath  = "/records"
	quickAddSubPath = "/quick-add"
	summarySubPath  = "/summary"
)

// SetupRoutes builds the router: public auth endpoints, bearer-protected
// health endpoints, and a liveness probe.
func SetupRoutes(
	authHandler *AuthHandler,
	healthHandler *HealthHandler,
	resolver TokenResolver,
	logger logging.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route(authBasePath, func(r chi.Router) {
		r.Post(registerSubPath, MakeHandler(authHandler.HandleRegister, logger))
		r.Post(loginSubPath, MakeHandler(authHandler.HandleLogin, logger))
	})

	r.Route(healthBasePath, func(r chi.Router) {
		r.Use(RequireAuth(resolver))
		r.Post(recordsSubPath, MakeHandler(healthHandler.HandleCreateRecord, logger))
		r.Post(quickAddSubPath, MakeHandler(healthHandler.HandleQuickAdd, logger))
		r.Get(recordsSubPath, MakeHandler(healthHandler.HandleListRecords, logger))
		r.Get(summarySubPath, MakeHandler(healthHandler.HandleSummary, logger))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
