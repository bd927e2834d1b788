package orders

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
)

// BuildVitalOrder assembles the submission bundle for one ServiceRequest.
// Entry order is fixed: questionnaire responses in supportingInfo scan order,
// then practitioner, the service request itself, coverage, and the normalized
// patient last. Downstream consumers assert on this ordering, so it must not
// change. The operation only reads; the stored resources stay untouched.
func (uc *orderUsecase) BuildVitalOrder(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*fhir_dto.TransactionBundle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.BuildVitalOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("service_request_id", serviceRequest.ID),
	)

	if serviceRequest.Subject == nil || serviceRequest.Subject.Reference == "" {
		return nil, exceptions.ErrOrderMissingReference("a subject reference")
	}
	if serviceRequest.Requester == nil || serviceRequest.Requester.Reference == "" {
		return nil, exceptions.ErrOrderMissingReference("a requester reference")
	}

	patientRaw, err := uc.resolveTyped(ctx, serviceRequest.Subject.Reference, constvars.ResourcePatient)
	if err != nil {
		return nil, err
	}
	patient := new(fhir_dto.Patient)
	if err := json.Unmarshal(patientRaw, patient); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	practitionerRaw, err := uc.resolveTyped(ctx, serviceRequest.Requester.Reference, constvars.ResourcePractitioner)
	if err != nil {
		return nil, err
	}
	practitioner := new(fhir_dto.Practitioner)
	if err := json.Unmarshal(practitionerRaw, practitioner); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
	}

	coverage, err := uc.findCoverage(ctx, serviceRequest.Insurance)
	if err != nil {
		return nil, err
	}

	questionnaireResponses, err := uc.findQuestionnaireResponses(ctx, serviceRequest.SupportingInfo)
	if err != nil {
		return nil, err
	}

	submittedPatient := normalizePatientForSubmission(patient)

	entries := make([]fhir_dto.TransactionEntry, 0, len(questionnaireResponses)+4)
	for _, questionnaireResponse := range questionnaireResponses {
		entries = append(entries, fhir_dto.TransactionEntry{Resource: questionnaireResponse})
	}
	entries = append(entries,
		fhir_dto.TransactionEntry{Resource: practitioner},
		fhir_dto.TransactionEntry{Resource: serviceRequest},
		fhir_dto.TransactionEntry{Resource: coverage},
		fhir_dto.TransactionEntry{Resource: submittedPatient},
	)

	return &fhir_dto.TransactionBundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeTransaction,
		Entry:        entries,
	}, nil
}

// resolveTyped dereferences a literal reference and verifies the stored
// resource actually is what the reference claims to point at.
func (uc *orderUsecase) resolveTyped(ctx context.Context, reference, expectedType string) (json.RawMessage, error) {
	raw, err := uc.ReferenceFhirClient.ReadReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if got := resourceTypeOf(raw); got != expectedType {
		return nil, exceptions.ErrOrderTypeMismatch(expectedType, got)
	}
	return raw, nil
}

func (uc *orderUsecase) findCoverage(ctx context.Context, insurance []fhir_dto.Reference) (*fhir_dto.Coverage, error) {
	for _, ref := range insurance {
		if fhir_dto.ClassifyReference(ref) != fhir_dto.ReferenceKindCoverage {
			continue
		}
		_, id, ok := fhir_dto.SplitReference(ref.Reference)
		if !ok {
			continue
		}
		return uc.CoverageFhirClient.GetCoverageByID(ctx, id)
	}
	return nil, exceptions.ErrOrderMissingCoverage()
}

func (uc *orderUsecase) findQuestionnaireResponses(ctx context.Context, supportingInfo []fhir_dto.Reference) ([]*fhir_dto.QuestionnaireResponse, error) {
	var questionnaireResponses []*fhir_dto.QuestionnaireResponse
	for _, ref := range supportingInfo {
		if fhir_dto.ClassifyReference(ref) != fhir_dto.ReferenceKindQuestionnaireResponse {
			continue
		}
		_, id, ok := fhir_dto.SplitReference(ref.Reference)
		if !ok {
			continue
		}
		questionnaireResponse, err := uc.QuestionnaireResponseFhirClient.GetQuestionnaireResponseByID(ctx, id)
		if err != nil {
			return nil, err
		}
		questionnaireResponses = append(questionnaireResponses, questionnaireResponse)
	}
	if len(questionnaireResponses) == 0 {
		return nil, exceptions.ErrOrderMissingQuestionnaire()
	}
	return questionnaireResponses, nil
}

// normalizePatientForSubmission copies the patient and fills in a default
// address country where missing. Only the submitted copy is touched.
func normalizePatientForSubmission(patient *fhir_dto.Patient) *fhir_dto.Patient {
	submitted := *patient
	if len(patient.Address) > 0 {
		submitted.Address = make([]fhir_dto.Address, len(patient.Address))
		copy(submitted.Address, patient.Address)
		for i := range submitted.Address {
			if submitted.Address[i].Country == "" {
				submitted.Address[i].Country = constvars.DefaultAddressCountry
			}
		}
	}
	return &submitted
}

func resourceTypeOf(raw json.RawMessage) string {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ResourceType
}
