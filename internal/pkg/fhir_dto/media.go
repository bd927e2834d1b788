package fhir_dto

type Media struct {
	ResourceType string     `json:"resourceType"`
	ID           string     `json:"id,omitempty"`
	Meta         *Meta      `json:"meta,omitempty"`
	Status       string     `json:"status,omitempty"`
	Subject      *Reference `json:"subject,omitempty"`
	Content      Attachment `json:"content"`
}
