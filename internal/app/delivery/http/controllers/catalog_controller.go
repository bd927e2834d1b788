package controllers

import (
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type CatalogController struct {
	Log            *zap.Logger
	CatalogUsecase contracts.CatalogUsecase
}

var (
	catalogControllerInstance *CatalogController
	onceCatalogController     sync.Once
)

func NewCatalogController(logger *zap.Logger, catalogUsecase contracts.CatalogUsecase) *CatalogController {
	onceCatalogController.Do(func() {
		instance := &CatalogController{
			Log:            logger,
			CatalogUsecase: catalogUsecase,
		}
		catalogControllerInstance = instance
	})
	return catalogControllerInstance
}

func (ctrl *CatalogController) GetLabs(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CatalogController.GetLabs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	labs, err := ctrl.CatalogUsecase.GetLabs(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetLabs, labs)
}

func (ctrl *CatalogController) GetLabTests(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CatalogController.GetLabTests called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	labID, err := strconv.Atoi(r.URL.Query().Get("lab_id"))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "lab_id"))
		return
	}

	labTests, err := ctrl.CatalogUsecase.GetLabTests(r.Context(), labID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetLabTests, labTests)
}

func (ctrl *CatalogController) GetMarkers(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CatalogController.GetMarkers called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	labTestID := r.URL.Query().Get("lab_test_id")
	if labTestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "lab_test_id"))
		return
	}

	markers, err := ctrl.CatalogUsecase.GetMarkers(r.Context(), labTestID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetMarkers, markers)
}

func (ctrl *CatalogController) SearchICD10(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CatalogController.SearchICD10 called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	term := r.URL.Query().Get("terms")
	if term == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "terms"))
		return
	}

	options, err := ctrl.CatalogUsecase.SearchICD10(r.Context(), term)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSearchICD10, options)
}
