package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/SummySKJi/amplify-audio-sphere/api/responses"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
)

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Amplify-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports 503 when any of
// them is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Amplify-Env", cfg.App.Env)

		var combined error
		statuses := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				statuses[name] = "down"
				combined = multierr.Append(combined, err)
				continue
			}
			statuses[name] = "ok"
		}

		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependency check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": statuses})
	}
}
