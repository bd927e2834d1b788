package fhir_dto

// ServiceRequest is the lab order root resource. The field set mirrors what
// the order wizard writes so that the post-submission update round-trips
// without dropping data.
type ServiceRequest struct {
	ResourceType       string            `json:"resourceType"`
	ID                 string            `json:"id,omitempty"`
	Meta               *Meta             `json:"meta,omitempty"`
	Identifier         []Identifier      `json:"identifier,omitempty"`
	Status             string            `json:"status,omitempty"`
	Intent             string            `json:"intent,omitempty"`
	Priority           string            `json:"priority,omitempty"`
	Code               *CodeableConcept  `json:"code,omitempty"`
	Subject            *Reference        `json:"subject,omitempty"`
	Requester          *Reference        `json:"requester,omitempty"`
	Performer          []Reference       `json:"performer,omitempty"`
	Insurance          []Reference       `json:"insurance,omitempty"`
	SupportingInfo     []Reference       `json:"supportingInfo,omitempty"`
	ReasonCode         []CodeableConcept `json:"reasonCode,omitempty"`
	OccurrenceDateTime string            `json:"occurrenceDateTime,omitempty"`
	AuthoredOn         string            `json:"authoredOn,omitempty"`
	Note               []Annotation      `json:"note,omitempty"`
	Extension          []Extension       `json:"extension,omitempty"`
}
