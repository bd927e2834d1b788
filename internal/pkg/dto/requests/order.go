package requests

// SubmitOrder identifies the stored ServiceRequest to ship to the lab.
type SubmitOrder struct {
	ServiceRequestID string `json:"service_request_id" validate:"required"`
}

// ResultEvent is the webhook payload announcing that results are ready for an
// externally known order.
type ResultEvent struct {
	ID string `json:"id" validate:"required"`
}
