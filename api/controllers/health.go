package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/responses"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/redis"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/storage/gcs"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketplace-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
// Nil dependencies are skipped so partial deployments stay probeable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketplace-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []struct {
			name string
			ping func(context.Context) error
		}{
			{"database", pingFn(dbP)},
			{"redis", pingFn(redisP)},
			{"object storage", pingFn(gcsP)},
		}
		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

func pingFn(p interface{ Ping(context.Context) error }) func(context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}
