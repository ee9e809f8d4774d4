package controllers

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/api/responses"
	"storefront-backend/pkg/config"
	"storefront-backend/pkg/db"
	"storefront-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// HealthLive answers as long as the process is serving requests.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady reports per-dependency status and 503s when any is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP interface {
	Ping(ctx context.Context) error
}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "down"
			healthy = false
			logg.Error(ctx, "health.database_unreachable", err)
		} else {
			checks["database"] = "up"
		}

		if err := cacheP.Ping(ctx); err != nil {
			checks["redis"] = "down"
			healthy = false
			logg.Error(ctx, "health.redis_unreachable", err)
		} else {
			checks["redis"] = "up"
		}

		status := http.StatusOK
		overall := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": overall,
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}
