package fhir_dto

// Binary carries raw artifact bytes base64-encoded in Data; the record store
// answers with an id and a retrieval url.
type Binary struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id,omitempty"`
	Meta         *Meta  `json:"meta,omitempty"`
	ContentType  string `json:"contentType,omitempty"`
	Data         string `json:"data,omitempty"`
	Url          string `json:"url,omitempty"`
}
