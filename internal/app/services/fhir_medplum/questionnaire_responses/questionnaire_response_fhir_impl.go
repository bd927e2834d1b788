package questionnaire_responses

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
	questionnaireResponseFhirClientInstance contracts.QuestionnaireResponseFhirClient
	onceQuestionnaireResponseFhirClient     sync.Once
)

type questionnaireResponseFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewQuestionnaireResponseFhirClient(baseUrl string, logger *zap.Logger) contracts.QuestionnaireResponseFhirClient {
	onceQuestionnaireResponseFhirClient.Do(func() {
		questionnaireResponseFhirClientInstance = &questionnaireResponseFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceQuestionnaireResponse,
			Log:     logger,
		}
	})
	return questionnaireResponseFhirClientInstance
}

func (c *questionnaireResponseFhirClient) GetQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) (*fhir_dto.QuestionnaireResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("questionnaireResponseFhirClient.GetQuestionnaireResponseByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("questionnaire_response_id", questionnaireResponseID),
	)

	url := c.BaseUrl + "/" + questionnaireResponseID
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.GetQuestionnaireResponseByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourceQuestionnaireResponse)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrGetFHIRResource(nil, constvars.ResourceQuestionnaireResponse)
	}

	questionnaireResponse := new(fhir_dto.QuestionnaireResponse)
	if err := json.NewDecoder(resp.Body).Decode(questionnaireResponse); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceQuestionnaireResponse)
	}

	return questionnaireResponse, nil
}
