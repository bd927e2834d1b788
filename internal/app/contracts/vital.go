package contracts

import (
	"context"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/fhir_dto"
)

// VitalOrderClient covers the order lifecycle against the Vital lab API.
type VitalOrderClient interface {
	// CreateOrder submits the transaction bundle and returns the external
	// order id assigned by Vital.
	CreateOrder(ctx context.Context, bundle *fhir_dto.TransactionBundle) (string, error)
	FetchResults(ctx context.Context, orderID string) (*fhir_dto.FHIRBundle, error)
	FetchResultPDF(ctx context.Context, orderID string) ([]byte, error)
}

// VitalCatalogClient covers Vital reference data used by the order wizard.
type VitalCatalogClient interface {
	GetLabs(ctx context.Context) ([]responses.Lab, error)
	GetLabTests(ctx context.Context, labID int) ([]responses.LabTest, error)
	GetMarkers(ctx context.Context, labTestID string) ([]responses.Marker, error)
}

type ICD10Client interface {
	Search(ctx context.Context, term string) ([]responses.ICD10Option, error)
}
