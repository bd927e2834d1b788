package models

import "time"

// SubmissionLog is one attempt to ship a ServiceRequest to the lab. Phase
// moves built -> submitted -> linked; failed is terminal for any phase.
type SubmissionLog struct {
	ID               string    `bson:"_id"`
	ServiceRequestID string    `bson:"service_request_id"`
	VitalOrderID     string    `bson:"vital_order_id,omitempty"`
	Phase            string    `bson:"phase"`
	ErrorText        string    `bson:"error_text,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}
