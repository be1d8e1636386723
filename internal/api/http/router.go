package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/internal/api/store"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/jwtx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Both endpoints accept credentials, so both get the strict per-IP limit
	// to slow brute-force and mass-registration attempts.
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// GET /user/profile - any authenticated user, lenient per-user limit
	r.Mux.Handle("GET /user/profile",
		httpx.Chain(&ProfileHandler{},
			httpx.AuthnMiddleware(r.verifier),
			r.withPrincipal(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /user/{id} - admin-only lookup of arbitrary users
	userGet := &UserGetHandler{UserService: r.UserService}
	r.Mux.Handle("GET /user/{id}",
		httpx.Chain(userGet,
			httpx.AuthnMiddleware(r.verifier),
			r.withPrincipal(),
			RequireAnyRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently, so the limit stays lenient.
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
