package controllers

import (
	"context"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/requests"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderController struct {
	Log          *zap.Logger
	OrderUsecase contracts.OrderUsecase
}

var (
	orderControllerInstance *OrderController
	onceOrderController     sync.Once
)

func NewOrderController(logger *zap.Logger, orderUsecase contracts.OrderUsecase) *OrderController {
	onceOrderController.Do(func() {
		instance := &OrderController{
			Log:          logger,
			OrderUsecase: orderUsecase,
		}
		orderControllerInstance = instance
	})
	return orderControllerInstance
}

func (ctrl *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("OrderController.SubmitOrder requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("OrderController.SubmitOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	serviceRequestID := chi.URLParam(r, "serviceRequestID")
	if serviceRequestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "serviceRequestID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	request := &requests.SubmitOrder{ServiceRequestID: serviceRequestID}
	response, err := ctrl.OrderUsecase.SubmitOrder(ctx, request)
	if err != nil {
		ctrl.Log.Error("OrderController.SubmitOrder error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSubmitOrder, response)
}
