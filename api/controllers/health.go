package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dcastano/brandpulse-backend/api/responses"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	pkgerrors "github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

const envHeader = "X-BrandPulse-Env"

// Pinger is the health-check surface shared by the db, redis, and pubsub
// clients. Nil dependencies are skipped, not failed.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				failure := pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
					WithDetails(map[string]any{"checks": checks})
				responses.WriteError(ctx, logg, w, failure)
				return
			}
			checks[name] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
