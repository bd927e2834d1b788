package contracts

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/pkg/dto/requests"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/fhir_dto"
)

// OrderUsecase covers the submission pipeline: assemble the order graph into
// a transaction bundle, ship it to the lab, and link the external id back.
type OrderUsecase interface {
	// BuildVitalOrder resolves the order graph into the deterministic
	// submission bundle. Pure reads; never mutates stored resources.
	BuildVitalOrder(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*fhir_dto.TransactionBundle, error)
	// SubmitOrder runs the full pipeline for a ServiceRequest id.
	SubmitOrder(ctx context.Context, request *requests.SubmitOrder) (*responses.SubmitOrder, error)
	// SubmitResource dispatches on the inbound resourceType. Anything other
	// than a ServiceRequest is acknowledged but not handled.
	SubmitResource(ctx context.Context, resource json.RawMessage) (*responses.SubmitOrder, error)
}

// ResultUsecase covers result ingestion: fetch the result bundle for an
// external order id and persist it as Observations plus a DiagnosticReport.
type ResultUsecase interface {
	ProcessResult(ctx context.Context, orderID string) (*fhir_dto.DiagnosticReport, error)
	SaveResults(ctx context.Context, orderID string, bundle *fhir_dto.FHIRBundle) (*fhir_dto.DiagnosticReport, error)
}

type CatalogUsecase interface {
	GetLabs(ctx context.Context) ([]responses.Lab, error)
	GetLabTests(ctx context.Context, labID int) ([]responses.LabTest, error)
	GetMarkers(ctx context.Context, labTestID string) ([]responses.Marker, error)
	SearchICD10(ctx context.Context, term string) ([]responses.ICD10Option, error)
}
