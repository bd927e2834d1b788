package icd10

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

var (
	icd10ClientInstance contracts.ICD10Client
	onceICD10Client     sync.Once
)

type icd10Client struct {
	SearchURL string
	Log       *zap.Logger
}

func NewICD10Client(logger *zap.Logger) contracts.ICD10Client {
	onceICD10Client.Do(func() {
		icd10ClientInstance = &icd10Client{
			SearchURL: constvars.ICD10SearchURL,
			Log:       logger,
		}
	})
	return icd10ClientInstance
}

// Search queries the NLM clinical-tables ICD-10-CM endpoint. The payload is
// a positional JSON array: [total, codes, extras, display-pairs], where each
// display pair is [code, name].
func (c *icd10Client) Search(ctx context.Context, term string) ([]responses.ICD10Option, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("icd10Client.Search called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("term", term),
	)

	endpoint := c.SearchURL + "?sf=code,name&terms=" + url.QueryEscape(term)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, "icd10cm search failed")
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "icd10cm")
	}
	if len(payload) < 4 {
		return nil, exceptions.ErrDecodeResponse(nil, "icd10cm")
	}

	var pairs [][]string
	if err := json.Unmarshal(payload[3], &pairs); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "icd10cm")
	}

	options := make([]responses.ICD10Option, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		options = append(options, responses.ICD10Option{Code: pair[0], Name: pair[1]})
	}

	return options, nil
}
