package service_requests

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
	serviceRequestFhirClientInstance contracts.ServiceRequestFhirClient
	onceServiceRequestFhirClient     sync.Once
)

type serviceRequestFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewServiceRequestFhirClient(baseUrl string, logger *zap.Logger) contracts.ServiceRequestFhirClient {
	onceServiceRequestFhirClient.Do(func() {
		serviceRequestFhirClientInstance = &serviceRequestFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceServiceRequest,
			Log:     logger,
		}
	})
	return serviceRequestFhirClientInstance
}

func (c *serviceRequestFhirClient) GetServiceRequestByID(ctx context.Context, serviceRequestID string) (*fhir_dto.ServiceRequest, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("serviceRequestFhirClient.GetServiceRequestByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("service_request_id", serviceRequestID),
	)

	url := c.BaseUrl + "/" + serviceRequestID
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("serviceRequestFhirClient.GetServiceRequestByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceServiceRequest)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrGetFHIRResource(nil, constvars.ResourceServiceRequest)
	}

	serviceRequest := new(fhir_dto.ServiceRequest)
	if err := json.NewDecoder(resp.Body).Decode(serviceRequest); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceServiceRequest)
	}

	return serviceRequest, nil
}

func (c *serviceRequestFhirClient) UpdateServiceRequest(ctx context.Context, serviceRequest *fhir_dto.ServiceRequest) (*fhir_dto.ServiceRequest, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("serviceRequestFhirClient.UpdateServiceRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("service_request_id", serviceRequest.ID),
	)

	payload, err := json.Marshal(serviceRequest)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	url := c.BaseUrl + "/" + serviceRequest.ID
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("serviceRequestFhirClient.UpdateServiceRequest error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, exceptions.ErrUpdateFHIRResource(nil, constvars.ResourceServiceRequest)
	}

	updated := new(fhir_dto.ServiceRequest)
	if err := json.NewDecoder(resp.Body).Decode(updated); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceServiceRequest)
	}

	return updated, nil
}
