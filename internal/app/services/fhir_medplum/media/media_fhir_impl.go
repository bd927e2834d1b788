package media

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
	mediaFhirClientInstance contracts.MediaFhirClient
	onceMediaFhirClient     sync.Once
)

type mediaFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewMediaFhirClient(baseUrl string, logger *zap.Logger) contracts.MediaFhirClient {
	onceMediaFhirClient.Do(func() {
		mediaFhirClientInstance = &mediaFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceMedia,
			Log:     logger,
		}
	})
	return mediaFhirClientInstance
}

func (c *mediaFhirClient) CreateMedia(ctx context.Context, media *fhir_dto.Media) (*fhir_dto.Media, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("mediaFhirClient.CreateMedia called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	payload, err := json.Marshal(media)
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
		c.Log.Error("mediaFhirClient.CreateMedia error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, exceptions.ErrCreateFHIRResource(nil, constvars.ResourceMedia)
	}

	created := new(fhir_dto.Media)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceMedia)
	}

	return created, nil
}
