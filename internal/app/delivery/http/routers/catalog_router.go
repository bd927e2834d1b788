package routers

import (
	"labbridge-service/internal/app/delivery/http/controllers"
	"labbridge-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCatalogRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *controllers.CatalogController) {
	router.Get("/labs", ctrl.GetLabs)
	router.Get("/lab-tests", ctrl.GetLabTests)
	router.Get("/markers", ctrl.GetMarkers)
	router.Get("/icd10cm", ctrl.SearchICD10)
}
