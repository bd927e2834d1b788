package exceptions

import (
	"fmt"
	"labbridge-service/internal/pkg/constvars"
)

// Order-building and result-ingestion failures. Every constructor tags the
// error with a stable Kind so callers and tests can branch on the category
// instead of matching message text.
var (
	ErrVitalConfig = func(detail string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, "Vital configuration is incomplete: "+detail).WithKind(KindConfigError)
	}
	ErrOrderMissingReference = func(detail string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientOrderNotSubmittable, "ServiceRequest is missing "+detail).WithKind(KindMissingReference)
	}
	ErrOrderTypeMismatch = func(expected, got string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientOrderNotSubmittable, fmt.Sprintf("Resolved reference is %s, expected %s", got, expected)).WithKind(KindTypeMismatch)
	}
	ErrOrderMissingCoverage = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientOrderNotSubmittable, "ServiceRequest has no Coverage among its insurance references").WithKind(KindMissingCoverage)
	}
	ErrOrderMissingQuestionnaire = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientOrderNotSubmittable, "ServiceRequest has no QuestionnaireResponse among its supportingInfo references").WithKind(KindMissingQuestionnaire)
	}
	ErrVitalAPI = func(statusCode int, body string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, fmt.Sprintf("Vital API error (status %d): %s", statusCode, body)).WithKind(KindExternalApiError)
	}
	ErrVitalContract = func(detail string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, "Vital API returned an unexpected payload: "+detail).WithKind(KindContractViolation)
	}
	ErrResultMissingPatient = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientResultNotIngestable, "Result bundle has no Patient entry with an id").WithKind(KindMissingPatient)
	}
	ErrResultPatientNotFound = func(err error, patientID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientResultNotIngestable, fmt.Sprintf("Result patient %s is not known to the record store", patientID)).WithKind(KindPatientNotFound)
	}
	ErrResultMissingObservations = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientResultNotIngestable, "Result bundle contains no Observation entries").WithKind(KindMissingObservations)
	}
)
