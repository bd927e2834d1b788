package constvars

const (
	VitalDefaultBaseURL = "https://api.dev.tryvital.io"

	HeaderVitalAPIKey = "x-vital-api-key"

	// IdentifierSystemVitalOrderID namespaces the external order id written
	// back onto the ServiceRequest after a successful submission.
	IdentifierSystemVitalOrderID = "vital-order-id"
)

const (
	VitalOrderFhirPath            = "/v3/order/fhir"
	VitalOrderResultPathFormat    = "/v3/order/%s/result/fhir"
	VitalOrderResultPDFPathFormat = "/v3/order/%s/result/pdf"
	VitalOrderSimulatePathFormat  = "/v3/order/%s/test"
	VitalLabsPath                 = "/v3/lab_tests/labs"
	VitalLabTestsPath             = "/v3/lab_tests"
	VitalMarkersPath              = "/v3/lab_tests/markers"
)

const (
	ICD10SearchURL = "https://clinicaltables.nlm.nih.gov/api/icd10cm/v3/search"
)

const (
	ResultPDFFileNameFormat  = "results/%s.pdf"
	ResultPDFAttachmentTitle = "report.pdf"
	ResultPDFMediaComment    = "PDF Result"
	MIMEApplicationPDF       = "application/pdf"
)
