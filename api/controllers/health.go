package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-cart/api/responses"
	cartsvc "github.com/angelmondragon/marketplace-cart/internal/cart"
	"github.com/angelmondragon/marketplace-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/marketplace-cart/pkg/errors"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
)

const envHeader = "X-Cart-Env"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness is the part of the cart store the ready probe looks at.
type Readiness interface {
	State() cartsvc.State
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers 503 until the cart has been restored and while the
// storage backend does not answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Readiness, backend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if store == nil || store.State() != cartsvc.StateReady {
			state := "missing"
			if store != nil {
				state = store.State().String()
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "cart not restored").
				WithDetails(map[string]any{"cart": state}))
			return
		}

		if backend != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := backend.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage backend unavailable").
					WithDetails(map[string]any{"storage": "unreachable"}))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": cfg.Storage.Kind()})
	}
}
