package responses

type SubmitOrder struct {
	ServiceRequestID string `json:"service_request_id"`
	VitalOrderID     string `json:"vital_order_id"`
	Handled          bool   `json:"handled"`
}

type EnqueueResult struct {
	OrderID string `json:"order_id"`
	Queued  bool   `json:"queued"`
}
