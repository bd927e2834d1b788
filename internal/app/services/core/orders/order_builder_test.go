package orders

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubReferenceFhirClient struct {
	resources map[string]string
	reads     int
}

func (s *stubReferenceFhirClient) ReadReference(ctx context.Context, reference string) (json.RawMessage, error) {
	s.reads++
	raw, ok := s.resources[reference]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, reference)
	}
	return json.RawMessage(raw), nil
}

type stubCoverageFhirClient struct {
	coverages map[string]*fhir_dto.Coverage
}

func (s *stubCoverageFhirClient) GetCoverageByID(ctx context.Context, coverageID string) (*fhir_dto.Coverage, error) {
	coverage, ok := s.coverages[coverageID]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceCoverage)
	}
	return coverage, nil
}

type stubQuestionnaireResponseFhirClient struct {
	questionnaireResponses map[string]*fhir_dto.QuestionnaireResponse
}

func (s *stubQuestionnaireResponseFhirClient) GetQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) (*fhir_dto.QuestionnaireResponse, error) {
	questionnaireResponse, ok := s.questionnaireResponses[questionnaireResponseID]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceQuestionnaireResponse)
	}
	return questionnaireResponse, nil
}

func builderFixture() (*orderUsecase, *stubReferenceFhirClient) {
	references := &stubReferenceFhirClient{resources: map[string]string{
		"Patient/pat-1":      `{"resourceType":"Patient","id":"pat-1","address":[{"city":"Springfield","state":"IL"}]}`,
		"Practitioner/doc-1": `{"resourceType":"Practitioner","id":"doc-1","name":[{"family":"Reyes"}]}`,
	}}
	uc := &orderUsecase{
		ReferenceFhirClient: references,
		CoverageFhirClient: &stubCoverageFhirClient{coverages: map[string]*fhir_dto.Coverage{
			"cov-1": {ResourceType: constvars.ResourceCoverage, ID: "cov-1", Status: "active"},
		}},
		QuestionnaireResponseFhirClient: &stubQuestionnaireResponseFhirClient{questionnaireResponses: map[string]*fhir_dto.QuestionnaireResponse{
			"qr-1": {ResourceType: constvars.ResourceQuestionnaireResponse, ID: "qr-1", Status: "completed"},
		}},
		Log: zap.NewNop(),
	}
	return uc, references
}

func validServiceRequest() *fhir_dto.ServiceRequest {
	return &fhir_dto.ServiceRequest{
		ResourceType: constvars.ResourceServiceRequest,
		ID:           "sr-1",
		Status:       "active",
		Intent:       "order",
		Subject:      &fhir_dto.Reference{Reference: "Patient/pat-1"},
		Requester:    &fhir_dto.Reference{Reference: "Practitioner/doc-1"},
		Insurance:    []fhir_dto.Reference{{Reference: "Coverage/cov-1", Type: "Coverage"}},
		SupportingInfo: []fhir_dto.Reference{
			{Reference: "QuestionnaireResponse/qr-1", Type: "QuestionnaireResponse"},
		},
	}
}

func TestBuildVitalOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Entry order and patient normalization", func(t *testing.T) {
		uc, _ := builderFixture()

		bundle, err := uc.BuildVitalOrder(ctx, validServiceRequest())
		assert.NoError(t, err)
		assert.Equal(t, constvars.ResourceBundle, bundle.ResourceType)
		assert.Equal(t, constvars.FhirBundleTypeTransaction, bundle.Type)
		assert.Len(t, bundle.Entry, 5)

		questionnaireResponse, ok := bundle.Entry[0].Resource.(*fhir_dto.QuestionnaireResponse)
		assert.True(t, ok)
		assert.Equal(t, "qr-1", questionnaireResponse.ID)

		practitioner, ok := bundle.Entry[1].Resource.(*fhir_dto.Practitioner)
		assert.True(t, ok)
		assert.Equal(t, "doc-1", practitioner.ID)

		serviceRequest, ok := bundle.Entry[2].Resource.(*fhir_dto.ServiceRequest)
		assert.True(t, ok)
		assert.Equal(t, "sr-1", serviceRequest.ID)

		coverage, ok := bundle.Entry[3].Resource.(*fhir_dto.Coverage)
		assert.True(t, ok)
		assert.Equal(t, "cov-1", coverage.ID)

		patient, ok := bundle.Entry[4].Resource.(*fhir_dto.Patient)
		assert.True(t, ok)
		assert.Equal(t, "pat-1", patient.ID)
		assert.Equal(t, constvars.DefaultAddressCountry, patient.Address[0].Country)
		assert.Equal(t, "Springfield", patient.Address[0].City)
	})

	t.Run("Stored patient copy is not mutated", func(t *testing.T) {
		stored := &fhir_dto.Patient{
			ResourceType: constvars.ResourcePatient,
			ID:           "pat-raw",
			Address:      []fhir_dto.Address{{City: "Springfield"}},
		}
		submitted := normalizePatientForSubmission(stored)

		assert.Equal(t, constvars.DefaultAddressCountry, submitted.Address[0].Country)
		assert.Equal(t, "", stored.Address[0].Country)

		// existing countries pass through unchanged
		stored.Address = append(stored.Address, fhir_dto.Address{Country: "CA"})
		submitted = normalizePatientForSubmission(stored)
		assert.Equal(t, "CA", submitted.Address[1].Country)
	})

	t.Run("Byte-identical on repeated builds", func(t *testing.T) {
		uc, _ := builderFixture()

		first, err := uc.BuildVitalOrder(ctx, validServiceRequest())
		assert.NoError(t, err)
		second, err := uc.BuildVitalOrder(ctx, validServiceRequest())
		assert.NoError(t, err)

		firstJSON, err := json.Marshal(first)
		assert.NoError(t, err)
		secondJSON, err := json.Marshal(second)
		assert.NoError(t, err)
		assert.Equal(t, firstJSON, secondJSON)
	})

	t.Run("Missing subject fails before any read", func(t *testing.T) {
		uc, references := builderFixture()

		serviceRequest := validServiceRequest()
		serviceRequest.Subject = nil

		_, err := uc.BuildVitalOrder(ctx, serviceRequest)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingReference, exceptions.KindOf(err))
		assert.Equal(t, 0, references.reads)
	})

	t.Run("Missing requester fails before any read", func(t *testing.T) {
		uc, references := builderFixture()

		serviceRequest := validServiceRequest()
		serviceRequest.Requester = &fhir_dto.Reference{}

		_, err := uc.BuildVitalOrder(ctx, serviceRequest)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingReference, exceptions.KindOf(err))
		assert.Equal(t, 0, references.reads)
	})

	t.Run("Subject resolving to wrong type", func(t *testing.T) {
		uc, references := builderFixture()
		references.resources["Patient/pat-1"] = `{"resourceType":"Practitioner","id":"pat-1"}`

		_, err := uc.BuildVitalOrder(ctx, validServiceRequest())
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindTypeMismatch, exceptions.KindOf(err))
	})

	t.Run("No coverage among insurance references", func(t *testing.T) {
		uc, _ := builderFixture()

		serviceRequest := validServiceRequest()
		serviceRequest.Insurance = []fhir_dto.Reference{{Reference: "Organization/org-1"}}

		_, err := uc.BuildVitalOrder(ctx, serviceRequest)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingCoverage, exceptions.KindOf(err))
	})

	t.Run("No questionnaire response among supportingInfo", func(t *testing.T) {
		uc, _ := builderFixture()

		serviceRequest := validServiceRequest()
		serviceRequest.SupportingInfo = nil

		_, err := uc.BuildVitalOrder(ctx, serviceRequest)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingQuestionnaire, exceptions.KindOf(err))
	})

	t.Run("Untyped references fall back to prefix matching", func(t *testing.T) {
		uc, _ := builderFixture()

		serviceRequest := validServiceRequest()
		serviceRequest.Insurance = []fhir_dto.Reference{{Reference: "Coverage/cov-1"}}
		serviceRequest.SupportingInfo = []fhir_dto.Reference{{Reference: "QuestionnaireResponse/qr-1"}}

		bundle, err := uc.BuildVitalOrder(ctx, serviceRequest)
		assert.NoError(t, err)
		assert.Len(t, bundle.Entry, 5)
	})
}
