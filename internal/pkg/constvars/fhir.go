package constvars

const (
	ResourcePatient               = "Patient"
	ResourcePractitioner          = "Practitioner"
	ResourceCoverage              = "Coverage"
	ResourceServiceRequest        = "ServiceRequest"
	ResourceQuestionnaireResponse = "QuestionnaireResponse"
	ResourceObservation           = "Observation"
	ResourceDiagnosticReport      = "DiagnosticReport"
	ResourceBinary                = "Binary"
	ResourceMedia                 = "Media"
	ResourceBundle                = "Bundle"
)

const (
	FhirBundleTypeTransaction = "transaction"
)

const (
	FhirMediaStatusCompleted = "completed"
)

const (
	FhirIdentifierUseSecondary = "secondary"
)

const (
	// DefaultCodingSystemLOINC is applied whenever an inbound coding omits a system.
	DefaultCodingSystemLOINC = "http://loinc.org"
	// DefaultAddressCountry is applied to submitted patient addresses lacking a country.
	DefaultAddressCountry = "US"
)
