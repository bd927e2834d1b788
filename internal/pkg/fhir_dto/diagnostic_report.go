package fhir_dto

type DiagnosticReport struct {
	ResourceType      string                  `json:"resourceType"`
	ID                string                  `json:"id,omitempty"`
	Meta              *Meta                   `json:"meta,omitempty"`
	Identifier        []Identifier            `json:"identifier,omitempty"`
	Status            string                  `json:"status,omitempty"`
	Code              CodeableConcept         `json:"code"`
	Subject           *Reference              `json:"subject,omitempty"`
	EffectiveDateTime string                  `json:"effectiveDateTime,omitempty"`
	Issued            string                  `json:"issued,omitempty"`
	Result            []Reference             `json:"result,omitempty"`
	Conclusion        string                  `json:"conclusion,omitempty"`
	ConclusionCode    []CodeableConcept       `json:"conclusionCode,omitempty"`
	Media             []DiagnosticReportMedia `json:"media,omitempty"`
}

type DiagnosticReportMedia struct {
	Comment string    `json:"comment,omitempty"`
	Link    Reference `json:"link"`
}
