package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcastano/brandpulse-backend/api/controllers"
	dashboardcontrollers "github.com/dcastano/brandpulse-backend/api/controllers/dashboard"
	digestcontrollers "github.com/dcastano/brandpulse-backend/api/controllers/digest"
	"github.com/dcastano/brandpulse-backend/api/middleware"
	digestsvc "github.com/dcastano/brandpulse-backend/internal/digest"
	"github.com/dcastano/brandpulse-backend/internal/insights"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

// Deps carries the wired services and health-check surfaces for the router.
type Deps struct {
	Insights insights.Service
	Digest   digestsvc.Service

	DB     controllers.Pinger
	Redis  controllers.Pinger
	PubSub controllers.Pinger

	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":     deps.DB,
			"redis":  deps.Redis,
			"pubsub": deps.PubSub,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.BrandScope(cfg.Brands, logg))
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/v1/dashboard", func(r chi.Router) {
				r.Get("/overview", dashboardcontrollers.Overview(deps.Insights, logg))
				r.Get("/trend", dashboardcontrollers.Trend(deps.Insights, logg))
				r.Get("/alerts", dashboardcontrollers.Alerts(deps.Insights, logg))
				r.Get("/brief", dashboardcontrollers.Brief(deps.Insights, logg))
				r.Get("/creators", dashboardcontrollers.Creators(deps.Insights, logg))
				r.Get("/creators/{creatorName}", dashboardcontrollers.CreatorDetail(deps.Insights, logg))
				r.Get("/products", dashboardcontrollers.Products(deps.Insights, logg))
				r.Get("/videos", dashboardcontrollers.Videos(deps.Insights, logg))
			})

			r.Route("/v1/digest", func(r chi.Router) {
				r.Post("/preview", digestcontrollers.Preview(deps.Digest, logg))
				r.With(middleware.RequireRole(enums.DashboardRoleAdmin, logg)).
					Post("/publish", digestcontrollers.Publish(deps.Digest, logg))
			})
		})

		// Reserved surfaces, not part of this deployment.
		r.Post("/v1/billing/checkout", controllers.NotEnabled("billing", logg))
		r.Post("/v1/assistant/chat", controllers.NotEnabled("assistant", logg))
	})

	return r
}
