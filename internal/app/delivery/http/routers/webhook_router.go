package routers

import (
	"labbridge-service/internal/app/delivery/http/controllers"
	"labbridge-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *controllers.WebhookController) {
	// POST /hook/vital-results
	router.With(middlewares.RequireWebhookAPIKey).Post("/hook/vital-results", ctrl.HandleVitalResults)
}
