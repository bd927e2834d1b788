package vital

import (
	"context"
	"encoding/json"
	"io"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/exceptions"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type markersResponse struct {
	Markers []responses.Marker `json:"markers"`
}

func (c *vitalClient) GetLabs(ctx context.Context) ([]responses.Lab, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.GetLabs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	resp, err := c.do(ctx, constvars.MethodGet, c.BaseURL+constvars.VitalLabsPath, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	var labs []responses.Lab
	if err := json.NewDecoder(resp.Body).Decode(&labs); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "labs")
	}

	return labs, nil
}

func (c *vitalClient) GetLabTests(ctx context.Context, labID int) ([]responses.LabTest, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.GetLabTests called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("lab_id", labID),
	)

	endpoint := c.BaseURL + constvars.VitalLabTestsPath + "?lab_id=" + strconv.Itoa(labID)
	resp, err := c.do(ctx, constvars.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	var labTests []responses.LabTest
	if err := json.NewDecoder(resp.Body).Decode(&labTests); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "lab tests")
	}

	return labTests, nil
}

func (c *vitalClient) GetMarkers(ctx context.Context, labTestID string) ([]responses.Marker, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("vitalClient.GetMarkers called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("lab_test_id", labTestID),
	)

	endpoint := c.BaseURL + constvars.VitalMarkersPath + "?lab_test_id=" + url.QueryEscape(labTestID)
	resp, err := c.do(ctx, constvars.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrVitalAPI(resp.StatusCode, string(body))
	}

	markers := new(markersResponse)
	if err := json.NewDecoder(resp.Body).Decode(markers); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "markers")
	}

	return markers.Markers, nil
}
