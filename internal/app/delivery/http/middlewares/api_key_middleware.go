package middlewares

import (
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// RequireWebhookAPIKey guards the result-event intake endpoint. The lab's
// webhook sender is configured with a static key; anything else is rejected
// before the event can reach the queue.
func (m *Middlewares) RequireWebhookAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderXAPIKey)

		if apiKey == "" || apiKey != m.InternalConfig.App.WebhookAPIKey {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		m.Log.Info("Webhook API key accepted",
			zap.String("ip", r.RemoteAddr),
			zap.String("endpoint", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("user_agent", r.UserAgent()))

		next.ServeHTTP(w, r)
	})
}
