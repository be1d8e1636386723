package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shortly/shortly-api/internal/api/store"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// HealthHandler reports liveness plus a database ping. A dead database makes
// the whole service unservable, so it renders as 503.
func HealthHandler(startTime time.Time, version string, st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			slogx.FromContext(r.Context()).Error("health check: database ping failed", "err", err)
			httpx.WriteError(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}
