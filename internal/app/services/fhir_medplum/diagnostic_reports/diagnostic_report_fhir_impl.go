package diagnostic_reports

import (
	"bytes"
	"context"
	"encoding/json"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

var (
	diagnosticReportFhirClientInstance contracts.DiagnosticReportFhirClient
	onceDiagnosticReportFhirClient     sync.Once
)

type diagnosticReportFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewDiagnosticReportFhirClient(baseUrl string, logger *zap.Logger) contracts.DiagnosticReportFhirClient {
	onceDiagnosticReportFhirClient.Do(func() {
		diagnosticReportFhirClientInstance = &diagnosticReportFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceDiagnosticReport,
			Log:     logger,
		}
	})
	return diagnosticReportFhirClientInstance
}

func (c *diagnosticReportFhirClient) CreateDiagnosticReport(ctx context.Context, report *fhir_dto.DiagnosticReport) (*fhir_dto.DiagnosticReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("diagnosticReportFhirClient.CreateDiagnosticReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(payload))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("diagnosticReportFhirClient.CreateDiagnosticReport error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, exceptions.ErrCreateFHIRResource(nil, constvars.ResourceDiagnosticReport)
	}

	created := new(fhir_dto.DiagnosticReport)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceDiagnosticReport)
	}

	return created, nil
}
