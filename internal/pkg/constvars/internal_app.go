package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "LABBRIDGE_SVC_"
)

const (
	CacheKeyLabs           = "catalog:labs"
	CacheKeyLabTestsFormat = "catalog:lab_tests:%d"
	CacheKeyMarkersFormat  = "catalog:markers:%s"
	CacheKeyICD10Format    = "catalog:icd10cm:%s"
)

const (
	MongoCollectionSubmissionLogs = "submission_logs"
)

const (
	SubmissionPhaseBuilt     = "built"
	SubmissionPhaseSubmitted = "submitted"
	SubmissionPhaseLinked    = "linked"
	SubmissionPhaseFailed    = "failed"
)
