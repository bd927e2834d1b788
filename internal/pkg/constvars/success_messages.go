package constvars

const (
	SuccessSubmitOrder      = "Order submitted to the laboratory"
	SuccessEnqueueResult    = "Result event accepted"
	SuccessGetLabs          = "Labs fetched"
	SuccessGetLabTests      = "Lab tests fetched"
	SuccessGetMarkers       = "Markers fetched"
	SuccessSearchICD10      = "ICD-10-CM codes fetched"
	ResponseUnknown         = "unknown"
	ResponseNotHandled      = "Resource type is not handled"
	ResponseAlreadyAccepted = "Event already accepted"
)
