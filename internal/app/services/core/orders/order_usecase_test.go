package orders

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/models"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/requests"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubServiceRequestFhirClient struct {
	serviceRequest *fhir_dto.ServiceRequest
	updated        *fhir_dto.ServiceRequest
	updateErr      error
	gets           int
	updates        int
}

func (s *stubServiceRequestFhirClient) GetServiceRequestByID(ctx context.Context, serviceRequestID string) (*fhir_dto.ServiceRequest, error) {
	s.gets++
	if s.serviceRequest == nil {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceServiceRequest)
	}
	return s.serviceRequest, nil
}

func (s *stubServiceRequestFhirClient) UpdateServiceRequest(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*fhir_dto.ServiceRequest, error) {
	s.updates++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = serviceRequest
	return serviceRequest, nil
}

type stubVitalOrderClient struct {
	orderID string
	err     error
	calls   int
	bundle  *fhir_dto.TransactionBundle
}

func (s *stubVitalOrderClient) CreateOrder(ctx context.Context, bundle *fhir_dto.TransactionBundle) (string, error) {
	s.calls++
	s.bundle = bundle
	if s.err != nil {
		return "", s.err
	}
	return s.orderID, nil
}

func (s *stubVitalOrderClient) FetchResults(ctx context.Context, orderID string) (*fhir_dto.FHIRBundle, error) {
	return nil, nil
}

func (s *stubVitalOrderClient) FetchResultPDF(ctx context.Context, orderID string) ([]byte, error) {
	return nil, nil
}

type recordingSubmissionLogRepository struct {
	inserted []models.SubmissionLog
	phases   []string
	orderIDs []string
}

func (r *recordingSubmissionLogRepository) Insert(ctx context.Context, log *models.SubmissionLog) error {
	r.inserted = append(r.inserted, *log)
	return nil
}

func (r *recordingSubmissionLogRepository) UpdatePhase(ctx context.Context, id, phase, vitalOrderID, errorText string) error {
	r.phases = append(r.phases, phase)
	r.orderIDs = append(r.orderIDs, vitalOrderID)
	return nil
}

type submitFixture struct {
	usecase         *orderUsecase
	serviceRequests *stubServiceRequestFhirClient
	references      *stubReferenceFhirClient
	vital           *stubVitalOrderClient
	auditLog        *recordingSubmissionLogRepository
}

func newSubmitFixture() *submitFixture {
	builder, references := builderFixture()
	serviceRequests := &stubServiceRequestFhirClient{serviceRequest: validServiceRequest()}
	vital := &stubVitalOrderClient{orderID: "abc-123"}
	auditLog := &recordingSubmissionLogRepository{}

	usecase := &orderUsecase{
		ServiceRequestFhirClient:        serviceRequests,
		ReferenceFhirClient:             builder.ReferenceFhirClient,
		CoverageFhirClient:              builder.CoverageFhirClient,
		QuestionnaireResponseFhirClient: builder.QuestionnaireResponseFhirClient,
		VitalOrderClient:                vital,
		SubmissionLogRepository:         auditLog,
		InternalConfig: &config.InternalConfig{
			Vital: config.Vital{APIKey: "test-key"},
		},
		Log: zap.NewNop(),
	}
	return &submitFixture{
		usecase:         usecase,
		serviceRequests: serviceRequests,
		references:      references,
		vital:           vital,
		auditLog:        auditLog,
	}
}

func TestSubmitOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful submission links the external order id", func(t *testing.T) {
		fixture := newSubmitFixture()
		fixture.serviceRequests.serviceRequest.Identifier = []fhir_dto.Identifier{
			{System: "urn:mrn", Value: "mrn-9"},
		}

		result, err := fixture.usecase.SubmitOrder(ctx, &requests.SubmitOrder{ServiceRequestID: "sr-1"})
		assert.NoError(t, err)
		assert.True(t, result.Handled)
		assert.Equal(t, "sr-1", result.ServiceRequestID)
		assert.Equal(t, "abc-123", result.VitalOrderID)

		assert.Equal(t, 1, fixture.vital.calls)
		assert.Len(t, fixture.vital.bundle.Entry, 5)

		updated := fixture.serviceRequests.updated
		assert.NotNil(t, updated)
		assert.Len(t, updated.Identifier, 2)
		assert.Equal(t, "urn:mrn", updated.Identifier[0].System)
		linked := updated.Identifier[1]
		assert.Equal(t, constvars.FhirIdentifierUseSecondary, linked.Use)
		assert.Equal(t, constvars.IdentifierSystemVitalOrderID, linked.System)
		assert.Equal(t, "abc-123", linked.Value)

		assert.Len(t, fixture.auditLog.inserted, 1)
		assert.Equal(t, constvars.SubmissionPhaseBuilt, fixture.auditLog.inserted[0].Phase)
		assert.Equal(t, []string{constvars.SubmissionPhaseSubmitted, constvars.SubmissionPhaseLinked}, fixture.auditLog.phases)
		assert.Equal(t, []string{"abc-123", "abc-123"}, fixture.auditLog.orderIDs)
	})

	t.Run("Missing api key fails before any call", func(t *testing.T) {
		fixture := newSubmitFixture()
		fixture.usecase.InternalConfig = &config.InternalConfig{}

		_, err := fixture.usecase.SubmitOrder(ctx, &requests.SubmitOrder{ServiceRequestID: "sr-1"})
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindConfigError, exceptions.KindOf(err))
		assert.Equal(t, 0, fixture.serviceRequests.gets)
		assert.Equal(t, 0, fixture.vital.calls)
	})

	t.Run("Vital rejection skips the identifier write-back", func(t *testing.T) {
		fixture := newSubmitFixture()
		fixture.vital.err = exceptions.ErrVitalAPI(500, "upstream exploded")

		_, err := fixture.usecase.SubmitOrder(ctx, &requests.SubmitOrder{ServiceRequestID: "sr-1"})
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindExternalApiError, exceptions.KindOf(err))
		assert.Equal(t, 0, fixture.serviceRequests.updates)
		assert.Equal(t, []string{constvars.SubmissionPhaseFailed}, fixture.auditLog.phases)
	})

	t.Run("Write-back failure surfaces the error and keeps the order id in the audit trail", func(t *testing.T) {
		fixture := newSubmitFixture()
		fixture.serviceRequests.updateErr = exceptions.ErrUpdateFHIRResource(nil, constvars.ResourceServiceRequest)

		_, err := fixture.usecase.SubmitOrder(ctx, &requests.SubmitOrder{ServiceRequestID: "sr-1"})
		assert.Error(t, err)
		assert.Equal(t, []string{constvars.SubmissionPhaseSubmitted, constvars.SubmissionPhaseFailed}, fixture.auditLog.phases)
		assert.Equal(t, "abc-123", fixture.auditLog.orderIDs[1])
	})

	t.Run("Build failure records a failed attempt", func(t *testing.T) {
		fixture := newSubmitFixture()
		fixture.serviceRequests.serviceRequest.SupportingInfo = nil

		_, err := fixture.usecase.SubmitOrder(ctx, &requests.SubmitOrder{ServiceRequestID: "sr-1"})
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingQuestionnaire, exceptions.KindOf(err))
		assert.Len(t, fixture.auditLog.inserted, 1)
		assert.Equal(t, constvars.SubmissionPhaseFailed, fixture.auditLog.inserted[0].Phase)
		assert.NotEmpty(t, fixture.auditLog.inserted[0].ErrorText)
		assert.Equal(t, 0, fixture.vital.calls)
	})
}

func TestSubmitResource(t *testing.T) {
	ctx := context.Background()

	t.Run("ServiceRequest payload is submitted", func(t *testing.T) {
		fixture := newSubmitFixture()
		raw, err := json.Marshal(validServiceRequest())
		assert.NoError(t, err)

		result, err := fixture.usecase.SubmitResource(ctx, raw)
		assert.NoError(t, err)
		assert.True(t, result.Handled)
		assert.Equal(t, "abc-123", result.VitalOrderID)
		assert.Equal(t, 0, fixture.serviceRequests.gets)
	})

	t.Run("Other resource types are acknowledged without action", func(t *testing.T) {
		fixture := newSubmitFixture()

		result, err := fixture.usecase.SubmitResource(ctx, json.RawMessage(`{"resourceType":"Patient","id":"pat-1"}`))
		assert.NoError(t, err)
		assert.False(t, result.Handled)
		assert.Equal(t, 0, fixture.vital.calls)
		assert.Equal(t, 0, fixture.references.reads)
		assert.Empty(t, fixture.auditLog.inserted)
	})
}
