package routers

import (
	"labbridge-service/internal/app/delivery/http/controllers"
	"labbridge-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachOrderRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *controllers.OrderController) {
	// POST /orders/{serviceRequestID}/submit
	router.Post("/{serviceRequestID}/submit", ctrl.SubmitOrder)
}
