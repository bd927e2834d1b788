package binaries

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
	binaryFhirClientInstance contracts.BinaryFhirClient
	onceBinaryFhirClient     sync.Once
)

type binaryFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewBinaryFhirClient(baseUrl string, logger *zap.Logger) contracts.BinaryFhirClient {
	onceBinaryFhirClient.Do(func() {
		binaryFhirClientInstance = &binaryFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceBinary,
			Log:     logger,
		}
	})
	return binaryFhirClientInstance
}

func (c *binaryFhirClient) CreateBinary(ctx context.Context, binary *fhir_dto.Binary) (*fhir_dto.Binary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("binaryFhirClient.CreateBinary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	payload, err := json.Marshal(binary)
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
		c.Log.Error("binaryFhirClient.CreateBinary error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, exceptions.ErrCreateFHIRResource(nil, constvars.ResourceBinary)
	}

	created := new(fhir_dto.Binary)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBinary)
	}

	return created, nil
}
