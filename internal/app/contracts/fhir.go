package contracts

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/pkg/fhir_dto"
)

// ReferenceFhirClient dereferences a literal "Type/id" reference without
// committing to a resource type; callers probe resourceType on the raw
// payload before decoding.
type ReferenceFhirClient interface {
	ReadReference(ctx context.Context, reference string) (json.RawMessage, error)
}

type PatientFhirClient interface {
	GetPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
}

type CoverageFhirClient interface {
	GetCoverageByID(ctx context.Context, coverageID string) (*fhir_dto.Coverage, error)
}

type ServiceRequestFhirClient interface {
	GetServiceRequestByID(ctx context.Context, serviceRequestID string) (*fhir_dto.ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*fhir_dto.ServiceRequest, error)
}

type QuestionnaireResponseFhirClient interface {
	GetQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) (*fhir_dto.QuestionnaireResponse, error)
}

// BundleFhirClient posts a transaction bundle to the FHIR base endpoint; the
// record store applies it atomically.
type BundleFhirClient interface {
	PostTransactionBundle(ctx context.Context, bundle *fhir_dto.TransactionBundle) (*fhir_dto.FHIRBundle, error)
}

type DiagnosticReportFhirClient interface {
	CreateDiagnosticReport(ctx context.Context, report *fhir_dto.DiagnosticReport) (*fhir_dto.DiagnosticReport, error)
}

type BinaryFhirClient interface {
	CreateBinary(ctx context.Context, binary *fhir_dto.Binary) (*fhir_dto.Binary, error)
}

type MediaFhirClient interface {
	CreateMedia(ctx context.Context, media *fhir_dto.Media) (*fhir_dto.Media, error)
}
