package responses

// Lab mirrors the Vital lab catalog entry shape.
type Lab struct {
	ID                int      `json:"id"`
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	FirstLineAddress  string   `json:"first_line_address"`
	City              string   `json:"city"`
	Zipcode           string   `json:"zipcode"`
	CollectionMethods []string `json:"collection_methods"`
	SampleTypes       []string `json:"sample_types"`
}

type LabTest struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	SampleType  string   `json:"sample_type"`
	Method      string   `json:"method"`
	Price       float64  `json:"price"`
	IsActive    bool     `json:"is_active"`
	Status      string   `json:"status"`
	Fasting     bool     `json:"fasting"`
	Lab         *Lab     `json:"lab,omitempty"`
	Markers     []Marker `json:"markers,omitempty"`
	IsDelegated bool     `json:"is_delegated"`
}

// Marker is a single measurable; AOE carries its ask-on-order-entry questions.
type Marker struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	LabID       int    `json:"lab_id"`
	ProviderID  string `json:"provider_id"`
	Type        string `json:"type,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Price       string `json:"price,omitempty"`
	AOE         *AOE   `json:"aoe,omitempty"`
}

type AOE struct {
	Questions []AOEQuestion `json:"questions"`
}

type AOEQuestion struct {
	ID       int         `json:"id"`
	Required bool        `json:"required"`
	Code     string      `json:"code"`
	Value    string      `json:"value"`
	Type     string      `json:"type"`
	Sequence int         `json:"sequence"`
	Answers  []AOEAnswer `json:"answers,omitempty"`
}

type AOEAnswer struct {
	ID    int    `json:"id"`
	Code  string `json:"code"`
	Value string `json:"value"`
}

// ICD10Option is one diagnosis-code search hit.
type ICD10Option struct {
	Code string `json:"value"`
	Name string `json:"label"`
}
