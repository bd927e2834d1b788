package bundle

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
	bundleFhirClientInstance contracts.BundleFhirClient
	onceBundleFhirClient     sync.Once
)

type bundleFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewBundleFhirClient(baseUrl string, logger *zap.Logger) contracts.BundleFhirClient {
	onceBundleFhirClient.Do(func() {
		bundleFhirClientInstance = &bundleFhirClient{
			BaseUrl: baseUrl,
			Log:     logger,
		}
	})
	return bundleFhirClientInstance
}

func (c *bundleFhirClient) PostTransactionBundle(ctx context.Context, bundle *fhir_dto.TransactionBundle) (*fhir_dto.FHIRBundle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("bundleFhirClient.PostTransactionBundle called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("entry_count", len(bundle.Entry)),
	)

	payload, err := json.Marshal(bundle)
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
		c.Log.Error("bundleFhirClient.PostTransactionBundle error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		outcome := new(fhir_dto.OperationOutcome)
		_ = json.NewDecoder(resp.Body).Decode(outcome)
		c.Log.Error("bundleFhirClient.PostTransactionBundle transaction rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.Any("operation_outcome", outcome),
		)
		return nil, exceptions.ErrCreateFHIRResource(nil, constvars.ResourceBundle)
	}

	result := new(fhir_dto.FHIRBundle)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
	}

	return result, nil
}
