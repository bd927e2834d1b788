package fhir_dto

import "encoding/json"

// FHIRBundle is the generic inbound bundle shape; entry resources stay raw
// until the caller knows what type to expect.
type FHIRBundle struct {
	ResourceType string  `json:"resourceType"`
	ID           string  `json:"id,omitempty"`
	Type         string  `json:"type,omitempty"`
	Total        int     `json:"total,omitempty"`
	Entry        []Entry `json:"entry,omitempty"`
}

type Entry struct {
	Resource json.RawMessage `json:"resource"`
}

// ResourceTypeOf peeks at an entry's resourceType without a full decode.
func (e Entry) ResourceTypeOf() string {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(e.Resource, &probe); err != nil {
		return ""
	}
	return probe.ResourceType
}

// TransactionBundle is the outbound bundle shape. Entry order is preserved by
// marshaling, which the Vital submission relies on.
type TransactionBundle struct {
	ResourceType string             `json:"resourceType"`
	Type         string             `json:"type"`
	Entry        []TransactionEntry `json:"entry"`
}

type TransactionEntry struct {
	Resource interface{}         `json:"resource"`
	Request  *TransactionRequest `json:"request,omitempty"`
}

type TransactionRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue,omitempty"`
}

type OperationOutcomeIssue struct {
	Severity    string `json:"severity,omitempty"`
	Code        string `json:"code,omitempty"`
	Diagnostics string `json:"diagnostics,omitempty"`
}
