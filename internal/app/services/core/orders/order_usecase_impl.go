package orders

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/app/models"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/requests"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderUsecase struct {
	ServiceRequestFhirClient        contracts.ServiceRequestFhirClient
	ReferenceFhirClient             contracts.ReferenceFhirClient
	CoverageFhirClient              contracts.CoverageFhirClient
	QuestionnaireResponseFhirClient contracts.QuestionnaireResponseFhirClient
	VitalOrderClient                contracts.VitalOrderClient
	SubmissionLogRepository         contracts.SubmissionLogRepository
	InternalConfig                  *config.InternalConfig
	Log                             *zap.Logger
}

var (
	orderUsecaseInstance contracts.OrderUsecase
	onceOrderUsecase     sync.Once
)

func NewOrderUsecase(
	serviceRequestFhirClient contracts.ServiceRequestFhirClient,
	referenceFhirClient contracts.ReferenceFhirClient,
	coverageFhirClient contracts.CoverageFhirClient,
	questionnaireResponseFhirClient contracts.QuestionnaireResponseFhirClient,
	vitalOrderClient contracts.VitalOrderClient,
	submissionLogRepository contracts.SubmissionLogRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.OrderUsecase {
	onceOrderUsecase.Do(func() {
		instance := &orderUsecase{
			ServiceRequestFhirClient:        serviceRequestFhirClient,
			ReferenceFhirClient:             referenceFhirClient,
			CoverageFhirClient:              coverageFhirClient,
			QuestionnaireResponseFhirClient: questionnaireResponseFhirClient,
			VitalOrderClient:                vitalOrderClient,
			SubmissionLogRepository:         submissionLogRepository,
			InternalConfig:                  internalConfig,
			Log:                             logger,
		}
		orderUsecaseInstance = instance
	})
	return orderUsecaseInstance
}

func (uc *orderUsecase) SubmitOrder(ctx context.Context, request *requests.SubmitOrder) (*responses.SubmitOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.SubmitOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("service_request_id", request.ServiceRequestID),
	)

	if uc.InternalConfig.Vital.APIKey == "" {
		return nil, exceptions.ErrVitalConfig("VITAL_API_KEY is not set")
	}

	serviceRequest, err := uc.ServiceRequestFhirClient.GetServiceRequestByID(ctx, request.ServiceRequestID)
	if err != nil {
		return nil, err
	}

	return uc.submitServiceRequest(ctx, serviceRequest)
}

// SubmitResource dispatches on the inbound resourceType. Only ServiceRequest
// payloads are handled; everything else is acknowledged without action.
func (uc *orderUsecase) SubmitResource(ctx context.Context, resource json.RawMessage) (*responses.SubmitOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	resourceType := resourceTypeOf(resource)
	if resourceType != constvars.ResourceServiceRequest {
		uc.Log.Info("orderUsecase.SubmitResource skipping unhandled resource type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("resource_type", resourceType),
		)
		return &responses.SubmitOrder{Handled: false}, nil
	}

	if uc.InternalConfig.Vital.APIKey == "" {
		return nil, exceptions.ErrVitalConfig("VITAL_API_KEY is not set")
	}

	serviceRequest := new(fhir_dto.ServiceRequest)
	if err := json.Unmarshal(resource, serviceRequest); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	return uc.submitServiceRequest(ctx, serviceRequest)
}

func (uc *orderUsecase) submitServiceRequest(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*responses.SubmitOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	logID := uuid.NewString()

	bundle, err := uc.BuildVitalOrder(ctx, serviceRequest)
	if err != nil {
		uc.recordAttempt(ctx, logID, serviceRequest.ID, constvars.SubmissionPhaseFailed, err)
		return nil, err
	}
	uc.recordAttempt(ctx, logID, serviceRequest.ID, constvars.SubmissionPhaseBuilt, nil)

	vitalOrderID, err := uc.VitalOrderClient.CreateOrder(ctx, bundle)
	if err != nil {
		uc.updateAttempt(ctx, logID, constvars.SubmissionPhaseFailed, "", err)
		return nil, err
	}
	uc.updateAttempt(ctx, logID, constvars.SubmissionPhaseSubmitted, vitalOrderID, nil)

	serviceRequest.Identifier = append(serviceRequest.Identifier, fhir_dto.Identifier{
		Use:    constvars.FhirIdentifierUseSecondary,
		System: constvars.IdentifierSystemVitalOrderID,
		Value:  vitalOrderID,
	})

	if _, err := uc.ServiceRequestFhirClient.UpdateServiceRequest(ctx, serviceRequest); err != nil {
		// The external order already exists; the audit log keeps the
		// submitted-but-unlinked state visible for reconciliation.
		uc.Log.Error("orderUsecase.submitServiceRequest identifier write-back failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("service_request_id", serviceRequest.ID),
			zap.String("vital_order_id", vitalOrderID),
			zap.Error(err),
		)
		uc.updateAttempt(ctx, logID, constvars.SubmissionPhaseFailed, vitalOrderID, err)
		return nil, err
	}
	uc.updateAttempt(ctx, logID, constvars.SubmissionPhaseLinked, vitalOrderID, nil)

	return &responses.SubmitOrder{
		ServiceRequestID: serviceRequest.ID,
		VitalOrderID:     vitalOrderID,
		Handled:          true,
	}, nil
}

// recordAttempt and updateAttempt are best-effort: a broken audit trail must
// never fail a submission that the lab already accepted.
func (uc *orderUsecase) recordAttempt(ctx context.Context, logID, serviceRequestID, phase string, cause error) {
	entry := &models.SubmissionLog{
		ID:               logID,
		ServiceRequestID: serviceRequestID,
		Phase:            phase,
	}
	if cause != nil {
		entry.ErrorText = cause.Error()
	}
	if err := uc.SubmissionLogRepository.Insert(ctx, entry); err != nil {
		uc.Log.Warn("orderUsecase failed to record submission attempt", zap.Error(err))
	}
}

func (uc *orderUsecase) updateAttempt(ctx context.Context, logID, phase, vitalOrderID string, cause error) {
	errorText := ""
	if cause != nil {
		errorText = cause.Error()
	}
	if err := uc.SubmissionLogRepository.UpdatePhase(ctx, logID, phase, vitalOrderID, errorText); err != nil {
		uc.Log.Warn("orderUsecase failed to update submission attempt", zap.Error(err))
	}
}
