package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pawfinder/pawfinder-backend/api/responses"
	"github.com/pawfinder/pawfinder-backend/pkg/config"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
	"github.com/pawfinder/pawfinder-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PawFinder-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the backing stores answer a ping.
// Redis is optional; an unconfigured client is skipped, not failed.
func HealthReady(cfg *config.Config, database pinger, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PawFinder-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache.Enabled() {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
