package coverages

import (
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
	coverageFhirClientInstance contracts.CoverageFhirClient
	onceCoverageFhirClient     sync.Once
)

type coverageFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewCoverageFhirClient(baseUrl string, logger *zap.Logger) contracts.CoverageFhirClient {
	onceCoverageFhirClient.Do(func() {
		coverageFhirClientInstance = &coverageFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceCoverage,
			Log:     logger,
		}
	})
	return coverageFhirClientInstance
}

func (c *coverageFhirClient) GetCoverageByID(ctx context.Context, coverageID string) (*fhir_dto.Coverage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("coverageFhirClient.GetCoverageByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("coverage_id", coverageID),
	)

	url := c.BaseUrl + "/" + coverageID
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("coverageFhirClient.GetCoverageByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceCoverage)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrGetFHIRResource(nil, constvars.ResourceCoverage)
	}

	coverage := new(fhir_dto.Coverage)
	if err := json.NewDecoder(resp.Body).Decode(coverage); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceCoverage)
	}

	return coverage, nil
}
