package controllers

import (
	"context"
	"encoding/json"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/responses"
	"labbridge-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubResultEventPublisher struct {
	orderIDs []string
	err      error
}

func (s *stubResultEventPublisher) PublishResultEvent(ctx context.Context, orderID string) error {
	if s.err != nil {
		return s.err
	}
	s.orderIDs = append(s.orderIDs, orderID)
	return nil
}

func webhookRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hook/vital-results", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	return req.WithContext(ctx)
}

func TestHandleVitalResults(t *testing.T) {
	t.Run("Valid event is queued and acknowledged with 202", func(t *testing.T) {
		publisher := &stubResultEventPublisher{}
		ctrl := &WebhookController{Log: zap.NewNop(), ResultEventPublisher: publisher}

		recorder := httptest.NewRecorder()
		ctrl.HandleVitalResults(recorder, webhookRequest(`{"id":"ord-42"}`))

		assert.Equal(t, constvars.StatusAccepted, recorder.Code)
		assert.Equal(t, []string{"ord-42"}, publisher.orderIDs)

		var envelope responses.ResponseDTO
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, constvars.SuccessEnqueueResult, envelope.Message)
	})

	t.Run("Missing order id is rejected", func(t *testing.T) {
		publisher := &stubResultEventPublisher{}
		ctrl := &WebhookController{Log: zap.NewNop(), ResultEventPublisher: publisher}

		recorder := httptest.NewRecorder()
		ctrl.HandleVitalResults(recorder, webhookRequest(`{}`))

		assert.Equal(t, constvars.StatusBadRequest, recorder.Code)
		assert.Empty(t, publisher.orderIDs)
	})

	t.Run("Malformed body is rejected", func(t *testing.T) {
		publisher := &stubResultEventPublisher{}
		ctrl := &WebhookController{Log: zap.NewNop(), ResultEventPublisher: publisher}

		recorder := httptest.NewRecorder()
		ctrl.HandleVitalResults(recorder, webhookRequest(`{"id":`))

		assert.Equal(t, constvars.StatusBadRequest, recorder.Code)
		assert.Empty(t, publisher.orderIDs)
	})

	t.Run("Broker outage surfaces an error response", func(t *testing.T) {
		publisher := &stubResultEventPublisher{err: exceptions.ErrQueuePublish(nil)}
		ctrl := &WebhookController{Log: zap.NewNop(), ResultEventPublisher: publisher}

		recorder := httptest.NewRecorder()
		ctrl.HandleVitalResults(recorder, webhookRequest(`{"id":"ord-42"}`))

		assert.NotEqual(t, constvars.StatusAccepted, recorder.Code)
		var envelope responses.ResponseDTO
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.False(t, envelope.Success)
	})

	t.Run("Missing request id", func(t *testing.T) {
		ctrl := &WebhookController{Log: zap.NewNop(), ResultEventPublisher: &stubResultEventPublisher{}}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/hook/vital-results", strings.NewReader(`{"id":"ord-42"}`))
		ctrl.HandleVitalResults(recorder, req)

		assert.Equal(t, constvars.StatusInternalServerError, recorder.Code)
	})
}
