package results

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"labbridge-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVitalOrderClient struct {
	results *fhir_dto.FHIRBundle
	pdf     []byte
	fetches int
}

func (s *stubVitalOrderClient) CreateOrder(ctx context.Context, bundle *fhir_dto.TransactionBundle) (string, error) {
	return "", nil
}

func (s *stubVitalOrderClient) FetchResults(ctx context.Context, orderID string) (*fhir_dto.FHIRBundle, error) {
	s.fetches++
	return s.results, nil
}

func (s *stubVitalOrderClient) FetchResultPDF(ctx context.Context, orderID string) ([]byte, error) {
	return s.pdf, nil
}

type stubPatientFhirClient struct {
	patients map[string]*fhir_dto.Patient
}

func (s *stubPatientFhirClient) GetPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	patient, ok := s.patients[patientID]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(nil, constvars.ResourcePatient)
	}
	return patient, nil
}

type stubBundleFhirClient struct {
	posted *fhir_dto.TransactionBundle
	calls  int
}

func (s *stubBundleFhirClient) PostTransactionBundle(ctx context.Context, bundle *fhir_dto.TransactionBundle) (*fhir_dto.FHIRBundle, error) {
	s.calls++
	s.posted = bundle

	response := &fhir_dto.FHIRBundle{ResourceType: constvars.ResourceBundle}
	for i, entry := range bundle.Entry {
		observation, ok := entry.Resource.(*fhir_dto.Observation)
		if !ok {
			continue
		}
		created := *observation
		created.ID = fmt.Sprintf("obs-%d", i+1)
		raw, err := json.Marshal(&created)
		if err != nil {
			return nil, err
		}
		response.Entry = append(response.Entry, fhir_dto.Entry{Resource: raw})
	}
	return response, nil
}

type stubDiagnosticReportFhirClient struct {
	created *fhir_dto.DiagnosticReport
}

func (s *stubDiagnosticReportFhirClient) CreateDiagnosticReport(ctx context.Context, report *fhir_dto.DiagnosticReport) (*fhir_dto.DiagnosticReport, error) {
	created := *report
	created.ID = "report-1"
	s.created = &created
	return &created, nil
}

type stubBinaryFhirClient struct {
	created *fhir_dto.Binary
}

func (s *stubBinaryFhirClient) CreateBinary(ctx context.Context, binary *fhir_dto.Binary) (*fhir_dto.Binary, error) {
	created := *binary
	created.ID = "bin-1"
	s.created = &created
	return &created, nil
}

type stubMediaFhirClient struct {
	created *fhir_dto.Media
}

func (s *stubMediaFhirClient) CreateMedia(ctx context.Context, media *fhir_dto.Media) (*fhir_dto.Media, error) {
	created := *media
	created.ID = "media-1"
	s.created = &created
	return &created, nil
}

type recordingStorageRepository struct {
	objects map[string][]byte
	err     error
}

func (r *recordingStorageRepository) UploadObject(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.objects == nil {
		r.objects = map[string][]byte{}
	}
	r.objects[objectName] = data
	return objectName, nil
}

type resultFixture struct {
	usecase *resultUsecase
	vital   *stubVitalOrderClient
	bundles *stubBundleFhirClient
	reports *stubDiagnosticReportFhirClient
	binary  *stubBinaryFhirClient
	media   *stubMediaFhirClient
	storage *recordingStorageRepository
}

func newResultFixture(isProd bool) *resultFixture {
	vital := &stubVitalOrderClient{pdf: []byte("%PDF-1.4 fake")}
	bundles := &stubBundleFhirClient{}
	reports := &stubDiagnosticReportFhirClient{}
	binary := &stubBinaryFhirClient{}
	media := &stubMediaFhirClient{}
	storage := &recordingStorageRepository{}

	usecase := &resultUsecase{
		VitalOrderClient: vital,
		PatientFhirClient: &stubPatientFhirClient{patients: map[string]*fhir_dto.Patient{
			"pat-1": {ResourceType: constvars.ResourcePatient, ID: "pat-1"},
		}},
		BundleFhirClient:           bundles,
		DiagnosticReportFhirClient: reports,
		BinaryFhirClient:           binary,
		MediaFhirClient:            media,
		StorageRepository:          storage,
		InternalConfig: &config.InternalConfig{
			Vital: config.Vital{BaseURL: "https://api.tryvital.io", IsProd: isProd},
		},
		Log: zap.NewNop(),
	}
	return &resultFixture{
		usecase: usecase,
		vital:   vital,
		bundles: bundles,
		reports: reports,
		binary:  binary,
		media:   media,
		storage: storage,
	}
}

func resultBundle(entries ...string) *fhir_dto.FHIRBundle {
	bundle := &fhir_dto.FHIRBundle{ResourceType: constvars.ResourceBundle, Type: "collection"}
	for _, raw := range entries {
		bundle.Entry = append(bundle.Entry, fhir_dto.Entry{Resource: json.RawMessage(raw)})
	}
	return bundle
}

const (
	resultPatientJSON     = `{"resourceType":"Patient","id":"pat-1"}`
	glucoseObservation    = `{"resourceType":"Observation","status":"final","code":{"coding":[{"code":"2345-7","display":"Glucose"}],"text":"Glucose"},"effectiveDateTime":"2026-08-30T09:00:00Z","issued":"2026-08-30T10:00:00Z","valueString":"92 mg/dL","interpretation":[{"coding":[{"system":"http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation","code":"N","display":"Normal"}]}]}`
	hemoglobinObservation = `{"resourceType":"Observation","status":"final","code":{"coding":[{"system":"http://loinc.org","code":"718-7","display":"Hemoglobin"}]},"valueString":"14.1 g/dL"}`
)

func TestSaveResults(t *testing.T) {
	ctx := context.Background()

	t.Run("Observations persist atomically and one report is created", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(resultPatientJSON, glucoseObservation, hemoglobinObservation)

		report, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.NoError(t, err)

		assert.Equal(t, 1, fixture.bundles.calls)
		assert.Len(t, fixture.bundles.posted.Entry, 2)
		for _, entry := range fixture.bundles.posted.Entry {
			assert.Equal(t, constvars.MethodPost, entry.Request.Method)
			assert.Equal(t, constvars.ResourceObservation, entry.Request.URL)
			observation := entry.Resource.(*fhir_dto.Observation)
			assert.Equal(t, "Patient/pat-1", observation.Subject.Reference)
			assert.Equal(t, constvars.ResourcePatient, observation.Subject.Type)
		}
		assert.Equal(t, constvars.ResourcePatient, report.Subject.Type)

		assert.Equal(t, "report-1", report.ID)
		assert.Equal(t, "final", report.Status)
		assert.Equal(t, []fhir_dto.Reference{
			{Reference: "Observation/obs-1"},
			{Reference: "Observation/obs-2"},
		}, report.Result)
		assert.Equal(t, "ord-1", report.Identifier[0].Value)
		assert.Equal(t, "https://api.tryvital.io/v3/order/ord-1/result/pdf", report.Identifier[0].System)
		assert.Equal(t, "Glucose", report.Code.Text)
		assert.Equal(t, "2026-08-30T09:00:00Z", report.EffectiveDateTime)
		assert.Equal(t, "Normal", report.Conclusion)
		assert.Len(t, report.ConclusionCode, 1)
	})

	t.Run("Missing coding system defaults to LOINC", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(resultPatientJSON, glucoseObservation)

		report, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.NoError(t, err)

		observation := fixture.bundles.posted.Entry[0].Resource.(*fhir_dto.Observation)
		assert.Equal(t, constvars.DefaultCodingSystemLOINC, observation.Code.Coding[0].System)
		assert.Equal(t, constvars.DefaultCodingSystemLOINC, report.Code.Coding[0].System)
	})

	t.Run("Normalized codings keep code and display on the wire", func(t *testing.T) {
		raw, err := json.Marshal(normalizeCodings([]fhir_dto.Coding{{}}))
		assert.NoError(t, err)

		var serialized []map[string]interface{}
		assert.NoError(t, json.Unmarshal(raw, &serialized))
		assert.Contains(t, serialized[0], "code")
		assert.Contains(t, serialized[0], "display")
		assert.Equal(t, constvars.DefaultCodingSystemLOINC, serialized[0]["system"])
	})

	t.Run("No patient entry", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(glucoseObservation)

		_, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingPatient, exceptions.KindOf(err))
		assert.Equal(t, 0, fixture.bundles.calls)
	})

	t.Run("Patient not found locally", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(`{"resourceType":"Patient","id":"stranger"}`, glucoseObservation)

		_, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindPatientNotFound, exceptions.KindOf(err))
		assert.Equal(t, 0, fixture.bundles.calls)
	})

	t.Run("No observations", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(resultPatientJSON)

		_, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.Error(t, err)
		assert.Equal(t, exceptions.KindMissingObservations, exceptions.KindOf(err))
		assert.Nil(t, fixture.reports.created)
	})

	t.Run("Non-production ingestion attaches the rendered PDF", func(t *testing.T) {
		fixture := newResultFixture(false)
		bundle := resultBundle(resultPatientJSON, glucoseObservation)

		report, err := fixture.usecase.SaveResults(ctx, "ord-9", bundle)
		assert.NoError(t, err)

		assert.NotNil(t, fixture.binary.created)
		assert.Equal(t, constvars.MIMEApplicationPDF, fixture.binary.created.ContentType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(fixture.vital.pdf), fixture.binary.created.Data)

		assert.NotNil(t, fixture.media.created)
		assert.Equal(t, constvars.FhirMediaStatusCompleted, fixture.media.created.Status)
		assert.Equal(t, "Binary/bin-1", fixture.media.created.Content.Url)
		assert.Equal(t, int64(len(fixture.vital.pdf)), fixture.media.created.Content.Size)

		assert.Len(t, report.Media, 1)
		assert.Equal(t, constvars.ResultPDFMediaComment, report.Media[0].Comment)
		assert.Equal(t, "Media/media-1", report.Media[0].Link.Reference)

		assert.Equal(t, fixture.vital.pdf, fixture.storage.objects["results/ord-9.pdf"])
	})

	t.Run("Archive upload failure does not fail ingestion", func(t *testing.T) {
		fixture := newResultFixture(false)
		fixture.storage.err = exceptions.ErrVitalAPI(503, "storage down")
		bundle := resultBundle(resultPatientJSON, glucoseObservation)

		report, err := fixture.usecase.SaveResults(ctx, "ord-9", bundle)
		assert.NoError(t, err)
		assert.Len(t, report.Media, 1)
	})

	t.Run("Production ingestion skips the PDF", func(t *testing.T) {
		fixture := newResultFixture(true)
		bundle := resultBundle(resultPatientJSON, glucoseObservation)

		report, err := fixture.usecase.SaveResults(ctx, "ord-1", bundle)
		assert.NoError(t, err)
		assert.Nil(t, fixture.binary.created)
		assert.Nil(t, fixture.media.created)
		assert.Empty(t, report.Media)
		assert.Empty(t, fixture.storage.objects)
	})
}

func TestProcessResult(t *testing.T) {
	fixture := newResultFixture(true)
	fixture.vital.results = resultBundle(resultPatientJSON, glucoseObservation)

	report, err := fixture.usecase.ProcessResult(context.Background(), "ord-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, fixture.vital.fetches)
	assert.Equal(t, "report-1", report.ID)
}
