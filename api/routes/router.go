package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/marketplace-cart/api/controllers/cart"
	"github.com/angelmondragon/marketplace-cart/api/middleware"
	"github.com/angelmondragon/marketplace-cart/internal/cart"
	"github.com/angelmondragon/marketplace-cart/pkg/config"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
)

// NewRouter wires the health, metrics and cart endpoints. gatherer may be nil,
// in which case /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cartService cart.Service,
	storage controllers.Pinger,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, cartService, storage))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", cartcontrollers.CartFetch(cartService, logg))
		r.Get("/events", cartcontrollers.CartEvents(cartService, logg))
		r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
		r.Post("/items/{id}/increment", cartcontrollers.CartIncrement(cartService, logg))
		r.Post("/items/{id}/decrement", cartcontrollers.CartDecrement(cartService, logg))
	})

	return r
}
