package controllers

import (
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/requests"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// WebhookController accepts result-ready events from the lab. Events are
// queued, never ingested inline, so the webhook answers fast regardless of
// record-store latency.
type WebhookController struct {
	Log                  *zap.Logger
	ResultEventPublisher contracts.ResultEventPublisher
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, resultEventPublisher contracts.ResultEventPublisher) *WebhookController {
	onceWebhookController.Do(func() {
		instance := &WebhookController{
			Log:                  logger,
			ResultEventPublisher: resultEventPublisher,
		}
		webhookControllerInstance = instance
	})
	return webhookControllerInstance
}

func (ctrl *WebhookController) HandleVitalResults(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WebhookController.HandleVitalResults requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("WebhookController.HandleVitalResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.ResultEvent)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		ctrl.Log.Error("WebhookController.HandleVitalResults invalid payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.ResultEventPublisher.PublishResultEvent(r.Context(), request.ID); err != nil {
		ctrl.Log.Error("WebhookController.HandleVitalResults enqueue failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.ID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := &responses.EnqueueResult{OrderID: request.ID, Queued: true}
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.SuccessEnqueueResult, response)
}
