package controllers

import (
	"context"
	"net/http"

	"github.com/flo-kian-baban/connex-backend/api/responses"
	"github.com/flo-kian-baban/connex-backend/pkg/config"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Connex-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each backing dependency and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, gcs pinger) http.HandlerFunc {
	checks := []struct {
		name string
		dep  pinger
	}{
		{"database", db},
		{"redis", redis},
		{"gcs", gcs},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Connex-Env", cfg.App.Env)

		status := map[string]string{}
		healthy := true
		for _, check := range checks {
			if check.dep == nil {
				status[check.name] = "skipped"
				continue
			}
			if err := check.dep.Ping(r.Context()); err != nil {
				status[check.name] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed: "+check.name, err)
				}
				continue
			}
			status[check.name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
