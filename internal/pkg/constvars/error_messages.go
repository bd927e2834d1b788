package constvars

const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process the request, please check your input"
	ErrClientOrderNotSubmittable           = "The order cannot be submitted, required information is missing"
	ErrClientResultNotIngestable           = "The lab result cannot be processed"
	ErrClientUpstreamUnavailable           = "The laboratory service is currently unavailable, please try again later"
	ErrClientResourceNotFound              = "The requested resource was not found"
	ErrClientInvalidAPIKey                 = "Invalid API key"
)

const (
	ErrDevValidationFailed           = "Request validation failed"
	ErrDevCannotParseJSON            = "Cannot parse JSON body"
	ErrDevCannotMarshalJSON          = "Cannot marshal payload to JSON"
	ErrDevBuildHTTPRequest           = "Cannot build HTTP request"
	ErrDevSendHTTPRequest            = "Cannot send HTTP request"
	ErrDevDecodeResponseFormat       = "Cannot decode %s response"
	ErrDevGetFHIRResourceFormat      = "Cannot read FHIR %s resource"
	ErrDevCreateFHIRResourceFormat   = "Cannot create FHIR %s resource"
	ErrDevUpdateFHIRResourceFormat   = "Cannot update FHIR %s resource"
	ErrDevRedisSet                   = "Cannot write to redis"
	ErrDevRedisGetFormat             = "Cannot read key %s from redis"
	ErrDevRedisDelete                = "Cannot delete key from redis"
	ErrDevMinioCreateObjectFormat    = "Cannot store object in bucket %s"
	ErrDevMongoInsert                = "Cannot insert document into mongo"
	ErrDevMongoUpdate                = "Cannot update document in mongo"
	ErrDevQueuePublish               = "Cannot publish message to queue"
	ErrDevQueueConsume               = "Cannot consume messages from queue"
	ErrDevURLParamIDValidationFailed = "URL parameter %s is not valid"
	ErrDevInvalidAPIKey              = "Provided API key does not match"
	ErrDevMissingRequestID           = "Request id not found in context"
)
