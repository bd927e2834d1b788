package vital

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	vitalClientInstance *vitalClient
	onceVitalClient     sync.Once
)

// vitalClient talks to the Vital lab API. A shared token-bucket limiter
// throttles every outbound call so burst traffic from the catalog endpoints
// cannot starve order submissions of upstream quota.
type vitalClient struct {
	APIKey  string
	BaseURL string
	Limiter *rate.Limiter
	Log     *zap.Logger
}

func newVitalClient(internalConfig *config.InternalConfig, logger *zap.Logger) *vitalClient {
	onceVitalClient.Do(func() {
		rps := internalConfig.Vital.RequestsPerSecond
		if rps <= 0 {
			rps = 1
		}
		vitalClientInstance = &vitalClient{
			APIKey:  internalConfig.Vital.APIKey,
			BaseURL: internalConfig.Vital.BaseURL,
			Limiter: rate.NewLimiter(rate.Limit(rps), rps),
			Log:     logger,
		}
	})
	return vitalClientInstance
}

func NewVitalOrderClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.VitalOrderClient {
	return newVitalClient(internalConfig, logger)
}

func NewVitalCatalogClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.VitalCatalogClient {
	return newVitalClient(internalConfig, logger)
}

type createOrderResponse struct {
	Order struct {
		ID string `json:"id"`
	} `json:"order"`
}

func (c *vitalClient) do(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	if contentType != "" {
		req.Header.Set(constvars.HeaderContentType, contentType)
	}
	req.Header.Set(constvars.HeaderVitalAPIKey, c.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	return resp, nil
}

func (c *vitalClient) CreateOrder(ctx context.Context, bundle *fhir_dto.TransactionBundle) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("entry_count", len(bundle.Entry)),
	)

	payload, err := json.Marshal(bundle)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.do(ctx, constvars.MethodPost, c.BaseURL+constvars.VitalOrderFhirPath, constvars.MIMEApplicationFHIRJSON, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		c.Log.Error("vitalClient.CreateOrder rejected by Vital",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	created := new(createOrderResponse)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return "", exceptions.ErrVitalContract("order response is not valid JSON: " + err.Error())
	}
	if created.Order.ID == "" {
		return "", exceptions.ErrVitalContract("order response is missing order.id")
	}

	return created.Order.ID, nil
}

func (c *vitalClient) FetchResults(ctx context.Context, orderID string) (*fhir_dto.FHIRBundle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.FetchResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", orderID),
	)

	url := c.BaseURL + fmt.Sprintf(constvars.VitalOrderResultPathFormat, orderID)
	resp, err := c.do(ctx, constvars.MethodGet, url, constvars.MIMEApplicationJSON, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	result := new(fhir_dto.FHIRBundle)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, exceptions.ErrVitalContract("result bundle is not valid JSON: " + err.Error())
	}

	return result, nil
}

func (c *vitalClient) FetchResultPDF(ctx context.Context, orderID string) ([]byte, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.FetchResultPDF called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", orderID),
	)

	url := c.BaseURL + fmt.Sprintf(constvars.VitalOrderResultPDFPathFormat, orderID)
	resp, err := c.do(ctx, constvars.MethodGet, url, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "PDF")
	}

	return pdf, nil
}
