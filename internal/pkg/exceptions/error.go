package exceptions

import (
	"fmt"
	"labbridge-service/internal/pkg/constvars"
	"runtime"
)

// Kind is the stable error category carried by every CustomError.
type Kind string

const (
	KindConfigError          Kind = "CONFIG_ERROR"
	KindMissingReference     Kind = "MISSING_REFERENCE"
	KindTypeMismatch         Kind = "TYPE_MISMATCH"
	KindMissingCoverage      Kind = "MISSING_COVERAGE"
	KindMissingQuestionnaire Kind = "MISSING_QUESTIONNAIRE"
	KindExternalApiError     Kind = "EXTERNAL_API_ERROR"
	KindContractViolation    Kind = "CONTRACT_VIOLATION"
	KindMissingPatient       Kind = "MISSING_PATIENT"
	KindPatientNotFound      Kind = "PATIENT_NOT_FOUND"
	KindMissingObservations  Kind = "MISSING_OBSERVATIONS"
	KindInternal             Kind = "INTERNAL"
	KindValidation           Kind = "VALIDATION"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	Kind          Kind       `json:"-"`
	DevMessage    string     `json:"-"`
	Locations     []Location `json:"-"`
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	loc := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, loc.File, loc.Line, loc.FunctionName)
}

// BuildNewCustomError is the base constructor used by every typed error in
// this package. The wrapped error, when present, is folded into DevMessage.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	devMsg := devMessage
	if err != nil {
		devMsg = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		Kind:          KindInternal,
		DevMessage:    devMsg,
		Locations:     []Location{getLocation(3)},
	}
}

// WithKind tags the error with a stable category and returns it.
func (e *CustomError) WithKind(kind Kind) *CustomError {
	e.Kind = kind
	return e
}

// KindOf extracts the error category, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if customErr, ok := err.(*CustomError); ok {
		return customErr.Kind
	}
	return KindInternal
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
