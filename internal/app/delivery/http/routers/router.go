package routers

import (
	"fmt"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/delivery/http/controllers"
	"labbridge-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	orderController *controllers.OrderController,
	webhookController *controllers.WebhookController,
	catalogController *controllers.CatalogController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/orders", func(r chi.Router) {
				attachOrderRoutes(r, middlewares, orderController)
			})

			attachWebhookRoutes(r, middlewares, webhookController)

			r.Route("/catalog", func(r chi.Router) {
				attachCatalogRoutes(r, middlewares, catalogController)
			})
		})
	})
}
