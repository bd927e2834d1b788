package references

import (
	"context"
	"encoding/json"
	"io"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

var (
	referenceFhirClientInstance contracts.ReferenceFhirClient
	onceReferenceFhirClient     sync.Once
)

type referenceFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewReferenceFhirClient(baseUrl string, logger *zap.Logger) contracts.ReferenceFhirClient {
	onceReferenceFhirClient.Do(func() {
		referenceFhirClientInstance = &referenceFhirClient{
			BaseUrl: baseUrl,
			Log:     logger,
		}
	})
	return referenceFhirClientInstance
}

// ReadReference fetches whatever the literal reference points at. The caller
// owns the resourceType check; this client only guarantees valid JSON.
func (c *referenceFhirClient) ReadReference(ctx context.Context, reference string) (json.RawMessage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("referenceFhirClient.ReadReference called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("reference", reference),
	)

	resourceType, _, ok := fhir_dto.SplitReference(reference)
	if !ok {
		return nil, exceptions.ErrGetFHIRResource(nil, reference)
	}

	url := c.BaseUrl + "/" + reference
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("referenceFhirClient.ReadReference error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, resourceType)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrGetFHIRResource(nil, resourceType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}
	if !json.Valid(body) {
		return nil, exceptions.ErrDecodeResponse(nil, resourceType)
	}

	return body, nil
}
