package results

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"sync"

	"go.uber.org/zap"
)

type resultUsecase struct {
	VitalOrderClient           contracts.VitalOrderClient
	PatientFhirClient          contracts.PatientFhirClient
	BundleFhirClient           contracts.BundleFhirClient
	DiagnosticReportFhirClient contracts.DiagnosticReportFhirClient
	BinaryFhirClient           contracts.BinaryFhirClient
	MediaFhirClient            contracts.MediaFhirClient
	StorageRepository          contracts.StorageRepository
	InternalConfig             *config.InternalConfig
	Log                        *zap.Logger
}

var (
	resultUsecaseInstance contracts.ResultUsecase
	onceResultUsecase     sync.Once
)

func NewResultUsecase(
	vitalOrderClient contracts.VitalOrderClient,
	patientFhirClient contracts.PatientFhirClient,
	bundleFhirClient contracts.BundleFhirClient,
	diagnosticReportFhirClient contracts.DiagnosticReportFhirClient,
	binaryFhirClient contracts.BinaryFhirClient,
	mediaFhirClient contracts.MediaFhirClient,
	storageRepository contracts.StorageRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ResultUsecase {
	onceResultUsecase.Do(func() {
		instance := &resultUsecase{
			VitalOrderClient:           vitalOrderClient,
			PatientFhirClient:          patientFhirClient,
			BundleFhirClient:           bundleFhirClient,
			DiagnosticReportFhirClient: diagnosticReportFhirClient,
			BinaryFhirClient:           binaryFhirClient,
			MediaFhirClient:            mediaFhirClient,
			StorageRepository:          storageRepository,
			InternalConfig:             internalConfig,
			Log:                        logger,
		}
		resultUsecaseInstance = instance
	})
	return resultUsecaseInstance
}

func (uc *resultUsecase) ProcessResult(ctx context.Context, orderID string) (*fhir_dto.DiagnosticReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resultUsecase.ProcessResult called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", orderID),
	)

	bundle, err := uc.VitalOrderClient.FetchResults(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return uc.SaveResults(ctx, orderID, bundle)
}

// SaveResults persists the result bundle: all observations as one atomic
// transaction, then exactly one DiagnosticReport derived from the first
// observation's report-level fields.
func (uc *resultUsecase) SaveResults(ctx context.Context, orderID string, bundle *fhir_dto.FHIRBundle) (*fhir_dto.DiagnosticReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resultUsecase.SaveResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", orderID),
		zap.Int("entry_count", len(bundle.Entry)),
	)

	resultPatient, err := findResultPatient(bundle)
	if err != nil {
		return nil, err
	}

	localPatient, err := uc.PatientFhirClient.GetPatientByID(ctx, resultPatient.ID)
	if err != nil {
		return nil, exceptions.ErrResultPatientNotFound(err, resultPatient.ID)
	}

	observations, err := filterObservations(bundle)
	if err != nil {
		return nil, err
	}

	patientRef := &fhir_dto.Reference{
		Reference: constvars.ResourcePatient + "/" + localPatient.ID,
		Type:      constvars.ResourcePatient,
	}
	for i := range observations {
		observations[i].ResourceType = constvars.ResourceObservation
		observations[i].Subject = patientRef
		observations[i].Code.Coding = normalizeCodings(observations[i].Code.Coding)
	}

	created, err := uc.persistObservations(ctx, observations)
	if err != nil {
		return nil, err
	}

	resultRefs := make([]fhir_dto.Reference, 0, len(created))
	for _, observation := range created {
		resultRefs = append(resultRefs, fhir_dto.Reference{
			Reference: constvars.ResourceObservation + "/" + observation.ID,
		})
	}

	metadata := observations[0]
	report := &fhir_dto.DiagnosticReport{
		ResourceType: constvars.ResourceDiagnosticReport,
		Identifier: []fhir_dto.Identifier{{
			System: uc.InternalConfig.Vital.BaseURL + fmt.Sprintf(constvars.VitalOrderResultPDFPathFormat, orderID),
			Value:  orderID,
		}},
		Status:            metadata.Status,
		Code:              fhir_dto.CodeableConcept{Coding: normalizeCodings(metadata.Code.Coding), Text: metadata.Code.Text},
		Subject:           patientRef,
		EffectiveDateTime: metadata.EffectiveDateTime,
		Issued:            metadata.Issued,
		Result:            resultRefs,
	}
	if len(metadata.Interpretation) > 0 {
		report.ConclusionCode = metadata.Interpretation
		if len(metadata.Interpretation[0].Coding) > 0 {
			report.Conclusion = metadata.Interpretation[0].Coding[0].Display
		}
	}

	if !uc.InternalConfig.Vital.IsProd {
		if err := uc.attachResultPDF(ctx, orderID, report); err != nil {
			return nil, err
		}
	}

	return uc.DiagnosticReportFhirClient.CreateDiagnosticReport(ctx, report)
}

// persistObservations writes every observation in one transaction bundle so a
// partial result set can never land, then decodes the created copies back out
// of the response.
func (uc *resultUsecase) persistObservations(ctx context.Context, observations []fhir_dto.Observation) ([]fhir_dto.Observation, error) {
	entries := make([]fhir_dto.TransactionEntry, 0, len(observations))
	for i := range observations {
		entries = append(entries, fhir_dto.TransactionEntry{
			Resource: &observations[i],
			Request: &fhir_dto.TransactionRequest{
				Method: constvars.MethodPost,
				URL:    constvars.ResourceObservation,
			},
		})
	}

	response, err := uc.BundleFhirClient.PostTransactionBundle(ctx, &fhir_dto.TransactionBundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeTransaction,
		Entry:        entries,
	})
	if err != nil {
		return nil, err
	}

	created := make([]fhir_dto.Observation, 0, len(response.Entry))
	for _, entry := range response.Entry {
		var observation fhir_dto.Observation
		if err := json.Unmarshal(entry.Resource, &observation); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceObservation)
		}
		if observation.ID == "" {
			continue
		}
		created = append(created, observation)
	}

	return created, nil
}

// attachResultPDF fetches the rendered report, stores it as a Binary wrapped
// in a Media resource, links the Media onto the report, and archives a copy
// in object storage.
func (uc *resultUsecase) attachResultPDF(ctx context.Context, orderID string, report *fhir_dto.DiagnosticReport) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	pdf, err := uc.VitalOrderClient.FetchResultPDF(ctx, orderID)
	if err != nil {
		return err
	}

	binary, err := uc.BinaryFhirClient.CreateBinary(ctx, &fhir_dto.Binary{
		ResourceType: constvars.ResourceBinary,
		ContentType:  constvars.MIMEApplicationPDF,
		Data:         base64.StdEncoding.EncodeToString(pdf),
	})
	if err != nil {
		return err
	}

	media, err := uc.MediaFhirClient.CreateMedia(ctx, &fhir_dto.Media{
		ResourceType: constvars.ResourceMedia,
		Status:       constvars.FhirMediaStatusCompleted,
		Subject:      report.Subject,
		Content: fhir_dto.Attachment{
			ContentType: constvars.MIMEApplicationPDF,
			Url:         constvars.ResourceBinary + "/" + binary.ID,
			Title:       constvars.ResultPDFAttachmentTitle,
			Size:        int64(len(pdf)),
		},
	})
	if err != nil {
		return err
	}

	report.Media = append(report.Media, fhir_dto.DiagnosticReportMedia{
		Comment: constvars.ResultPDFMediaComment,
		Link:    fhir_dto.Reference{Reference: constvars.ResourceMedia + "/" + media.ID},
	})

	objectName := fmt.Sprintf(constvars.ResultPDFFileNameFormat, orderID)
	if _, err := uc.StorageRepository.UploadObject(ctx, objectName, pdf, constvars.MIMEApplicationPDF); err != nil {
		// The Binary in the record store is authoritative; a failed archive
		// copy is not worth failing the whole ingestion.
		uc.Log.Warn("resultUsecase.attachResultPDF archive upload failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	return nil
}

func findResultPatient(bundle *fhir_dto.FHIRBundle) (*fhir_dto.Patient, error) {
	for _, entry := range bundle.Entry {
		if entry.ResourceTypeOf() != constvars.ResourcePatient {
			continue
		}
		patient := new(fhir_dto.Patient)
		if err := json.Unmarshal(entry.Resource, patient); err != nil {
			return nil, exceptions.ErrResultMissingPatient()
		}
		if patient.ID == "" {
			return nil, exceptions.ErrResultMissingPatient()
		}
		return patient, nil
	}
	return nil, exceptions.ErrResultMissingPatient()
}

func filterObservations(bundle *fhir_dto.FHIRBundle) ([]fhir_dto.Observation, error) {
	var observations []fhir_dto.Observation
	for _, entry := range bundle.Entry {
		if entry.ResourceTypeOf() != constvars.ResourceObservation {
			continue
		}
		var observation fhir_dto.Observation
		if err := json.Unmarshal(entry.Resource, &observation); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceObservation)
		}
		observations = append(observations, observation)
	}
	if len(observations) == 0 {
		return nil, exceptions.ErrResultMissingObservations()
	}
	return observations, nil
}

// normalizeCodings guards against the lab omitting coding subfields: every
// entry gets a system, and code/display stay present even when empty.
func normalizeCodings(codings []fhir_dto.Coding) []fhir_dto.Coding {
	normalized := make([]fhir_dto.Coding, len(codings))
	for i, coding := range codings {
		if coding.System == "" {
			coding.System = constvars.DefaultCodingSystemLOINC
		}
		normalized[i] = coding
	}
	return normalized
}
